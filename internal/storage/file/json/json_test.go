package json

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/drakos74/tile-brain/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Means   [][]float64 `json:"means"`
	Closest []int       `json:"closest"`
}

func TestBlobStorage(t *testing.T) {
	dir := t.TempDir()
	s := NewJsonBlobAt(dir, "brain", "shop", false)
	k := storage.Key{Pair: "shop.orders", Label: "clusterer"}

	var v payload
	assert.True(t, errors.Is(s.Load(k, &v), storage.NotFoundErr))

	p := payload{
		Means:   [][]float64{{0.5, 1}, {0, 0.25}},
		Closest: []int{3, 1},
	}
	require.NoError(t, s.Store(k, p))
	_, err := os.Stat(filepath.Join(dir, "brain", "shop", "shop.orders_0_clusterer.json"))
	require.NoError(t, err)

	require.NoError(t, s.Load(k, &v))
	assert.Equal(t, p, v)

	// overwrite
	p.Closest = []int{4, 1}
	require.NoError(t, s.Store(k, p))
	require.NoError(t, s.Load(k, &v))
	assert.Equal(t, p, v)
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "key.json"), []byte("{"), 0644))
	var v payload
	assert.True(t, errors.Is(Load(dir, "key", &v), storage.CouldNotLoadErr))
}

func TestSave_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte{}, 0644))
	assert.Error(t, Save(file, "key", payload{}))
}

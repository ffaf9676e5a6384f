package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

func TestKey_Path(t *testing.T) {
	assert.Equal(t, "shop.orders_0_clusterer", Key{Pair: "shop.orders", Label: "clusterer"}.Path())
}

func TestMockStorage(t *testing.T) {
	s := NewMockStorage()
	k := Key{Pair: "p", Label: "l"}

	var v payload
	assert.True(t, errors.Is(s.Load(k, &v), NotFoundErr))

	require.NoError(t, s.Store(k, payload{Name: "n", Values: []float64{1, 2}}))
	require.NoError(t, s.Load(k, &v))
	assert.Equal(t, payload{Name: "n", Values: []float64{1, 2}}, v)

	var wrong []int
	assert.True(t, errors.Is(s.Load(k, &wrong), CouldNotLoadErr))
}

func TestVoidStorage(t *testing.T) {
	s := NewVoidStorage()
	k := Key{Pair: "p"}
	require.NoError(t, s.Store(k, payload{}))
	var v payload
	assert.True(t, errors.Is(s.Load(k, &v), NotFoundErr))
}

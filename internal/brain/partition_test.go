package brain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	tilemath "github.com/drakos74/tile-brain/internal/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withUsage creates a clusterer on the given seeds and records the given assignments per cluster.
func withUsage(t *testing.T, usage []int, seeds ...tilemath.Sample) *Clusterer {
	c := newTestClusterer(t, 0.5, seeds...)
	for cluster, n := range usage {
		for i := 0; i < n; i++ {
			require.NoError(t, c.RecordAssignment(cluster))
		}
	}
	return c
}

func TestClusterer_Usage(t *testing.T) {
	c := withUsage(t, []int{1, 3, 1, 0},
		tilemath.NewSample(0),
		tilemath.NewSample(0),
		tilemath.NewSample(0),
		tilemath.NewSample(0),
	)
	assert.Equal(t, []Usage{
		{Cluster: 1, Fraction: 0.6},
		{Cluster: 0, Fraction: 0.2},
		{Cluster: 2, Fraction: 0.2},
		{Cluster: 3, Fraction: 0},
	}, c.Usage())
}

func TestClusterer_Partitioning(t *testing.T) {

	type test struct {
		usage   []int
		seeds   []tilemath.Sample
		tiles   int
		mapping map[int]int
	}

	tests := map[string]test{
		"two-patterns": {
			usage: []int{1, 2},
			seeds: []tilemath.Sample{
				{1, 1, 0, 0},
				{0, 0, 1, 1},
			},
			tiles:   2,
			mapping: map[int]int{0: 1, 1: 1, 2: 0, 3: 0},
		},
		"flush-clamps-to-last-tile": {
			usage: []int{3, 2, 1},
			seeds: []tilemath.Sample{
				{1, 0, 0, 0},
				{0, 1, 0, 0},
				{0, 0, 1, 0},
			},
			tiles:   2,
			mapping: map[int]int{0: 0, 1: 1, 2: 1, 3: 1},
		},
		"one-tile-per-column": {
			usage: []int{1},
			seeds: []tilemath.Sample{
				{0, 1, 0},
			},
			tiles:   3,
			mapping: map[int]int{0: 0, 1: 1, 2: 2},
		},
		"equal-fractions-keep-both-clusters": {
			usage: []int{1, 1},
			seeds: []tilemath.Sample{
				{0, 0, 1, 0},
				{1, 0, 0, 0},
			},
			tiles:   2,
			mapping: map[int]int{0: 1, 1: 1, 2: 0, 3: 1},
		},
		"last-tile-collects-remaining-clusters": {
			usage: []int{4, 3, 2, 1},
			seeds: []tilemath.Sample{
				{1, 1, 0, 0, 0, 0},
				{0, 0, 1, 0, 0, 0},
				{0, 0, 0, 1, 0, 0},
				{0, 0, 0, 0, 1, 1},
			},
			tiles:   2,
			mapping: map[int]int{0: 0, 1: 0, 2: 1, 3: 1, 4: 1, 5: 1},
		},
		"no-enabled-columns": {
			usage: []int{1},
			seeds: []tilemath.Sample{
				{0, 0, 0, 0, 0},
			},
			tiles:   2,
			mapping: map[int]int{0: 1, 1: 1, 2: 1, 3: 1, 4: 1},
		},
		"single-tile": {
			usage: []int{0, 5},
			seeds: []tilemath.Sample{
				{1, 0, 1},
				{0, 1, 0},
			},
			tiles:   1,
			mapping: map[int]int{0: 0, 1: 0, 2: 0},
		},
		"no-samples": {
			seeds: []tilemath.Sample{
				{1, 1, 0, 0},
				{0, 0, 1, 1},
			},
			tiles:   2,
			mapping: map[int]int{0: 0, 1: 0, 2: 1, 3: 1},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := withUsage(t, tt.usage, tt.seeds...)
			mapping, err := c.Partitioning(tt.tiles)
			require.NoError(t, err)
			assert.Equal(t, tt.mapping, mapping)
		})
	}
}

func TestClusterer_PartitioningInvalidTiles(t *testing.T) {
	c := newTestClusterer(t, 0.5, tilemath.NewSample(1, 0, 1))
	for _, tiles := range []int{-1, 0, 4} {
		mapping, err := c.Partitioning(tiles)
		assert.True(t, errors.Is(err, ErrInvalidArgument))
		assert.Nil(t, mapping)
	}
}

func TestClusterer_PartitioningCoverage(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for _, columns := range []int{1, 2, 5, 8, 13} {
		c, err := NewClustererWith(4, columns, 0.4, RandomSeeds(rand.NewSource(int64(columns)), 1))
		require.NoError(t, err)
		for i := 0; i < 100; i++ {
			s := tilemath.NewZeroSample(columns)
			for j := range s {
				s[j] = rnd.Float64()
			}
			_, err := c.ProcessSample(s)
			require.NoError(t, err)
		}
		for tiles := 1; tiles <= columns; tiles++ {
			mapping, err := c.Partitioning(tiles)
			require.NoError(t, err)
			require.Len(t, mapping, columns)
			for column := 0; column < columns; column++ {
				tile, ok := mapping[column]
				require.True(t, ok, "missing column %d", column)
				assert.GreaterOrEqual(t, tile, 0)
				assert.Less(t, tile, tiles)
			}
			again, err := c.Partitioning(tiles)
			require.NoError(t, err)
			assert.Equal(t, mapping, again)
		}
	}
}

func TestPartition_InconsistentColumns(t *testing.T) {
	mapping, err := Partition(3, 2, []Usage{{Cluster: 0, Fraction: 1}}, func(cluster int) *roaring.Bitmap {
		return roaring.BitmapOf(0, 7)
	})
	assert.True(t, errors.Is(err, ErrInternal))
	assert.Nil(t, mapping)
}

func TestPartition_InvalidTiles(t *testing.T) {
	_, err := Partition(3, 4, nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestPartition_NoClusters(t *testing.T) {
	mapping, err := Partition(3, 2, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{0: 0, 1: 1, 2: 1}, mapping)
}

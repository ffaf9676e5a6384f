package brain

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rs/zerolog/log"
)

// Usage is the share of samples a cluster has attracted.
type Usage struct {
	Cluster  int     `json:"cluster"`
	Fraction float64 `json:"fraction"`
}

// Usage returns the usage of all clusters, most frequently selected first.
// Clusters with the same fraction are ordered by index.
func (c *Clusterer) Usage() []Usage {
	usage := make([]Usage, len(c.means))
	for i := range c.means {
		usage[i] = Usage{
			Cluster:  i,
			Fraction: c.fraction(i),
		}
	}
	sort.SliceStable(usage, func(i, j int) bool {
		if usage[i].Fraction != usage[j].Fraction {
			return usage[i].Fraction > usage[j].Fraction
		}
		return usage[i].Cluster < usage[j].Cluster
	})
	return usage
}

// Partitioning assigns every column to one of the given number of tiles.
// Columns enabled by the most used clusters are grouped together first.
func (c *Clusterer) Partitioning(tiles int) (map[int]int, error) {
	if tiles < 1 || tiles > c.columns {
		return nil, fmt.Errorf("tile count %d not in [1,%d]: %w", tiles, c.columns, ErrInvalidArgument)
	}
	return Partition(c.columns, tiles, c.Usage(), func(cluster int) *roaring.Bitmap {
		return c.means[cluster].EnabledColumns()
	})
}

// Partition walks the clusters in the given order and assigns their enabled columns to tiles.
// Each cluster opens the next tile, until the last tile is reached, which then collects all remaining clusters.
// Once no more columns remain than there are tiles, the remaining columns get a tile each.
func Partition(columns, tiles int, order []Usage, enabled func(cluster int) *roaring.Bitmap) (map[int]int, error) {
	if tiles < 1 || tiles > columns {
		return nil, fmt.Errorf("tile count %d not in [1,%d]: %w", tiles, columns, ErrInvalidArgument)
	}

	p := &partition{
		columns:   columns,
		tiles:     tiles,
		assigned:  roaring.New(),
		mapping:   make(map[int]int, columns),
		remaining: columns,
	}

	for _, u := range order {
		log.Trace().
			Int("cluster", u.Cluster).
			Float64("fraction", u.Fraction).
			Int("tile", p.tile).
			Int("remaining", p.remaining).
			Msg("partition cluster")

		if p.remaining <= tiles {
			p.flush()
		}

		it := enabled(u.Cluster).Iterator()
		for it.HasNext() {
			p.assign(int(it.Next()))
		}

		p.next()
	}

	// columns no cluster enabled
	p.flush()

	if err := p.verify(); err != nil {
		log.Error().
			Err(err).
			Int("columns", columns).
			Int("tiles", tiles).
			Int("clusters", len(order)).
			Msg("inconsistent partitioning")
		return nil, err
	}

	return p.mapping, nil
}

type partition struct {
	columns   int
	tiles     int
	tile      int
	remaining int
	assigned  *roaring.Bitmap
	mapping   map[int]int
}

// assign puts the column in the current tile, unless it already belongs to one.
func (p *partition) assign(column int) {
	if p.assigned.CheckedAdd(uint32(column)) {
		p.mapping[column] = p.tile
		p.remaining--
	}
}

// flush gives every unassigned column its own tile, starting from the current one.
// NOTE : the remaining count is left untouched, as the fast path does not track it.
func (p *partition) flush() {
	for column := 0; column < p.columns; column++ {
		if p.assigned.CheckedAdd(uint32(column)) {
			p.mapping[column] = p.tile
			p.next()
		}
	}
}

// next moves to the next tile, staying on the last one once reached.
func (p *partition) next() {
	p.tile++
	if p.tile >= p.tiles {
		p.tile = p.tiles - 1
	}
}

func (p *partition) verify() error {
	if len(p.mapping) != p.columns {
		return fmt.Errorf("partitioning covers %d columns instead of %d: %w", len(p.mapping), p.columns, ErrInternal)
	}
	for column := 0; column < p.columns; column++ {
		tile, ok := p.mapping[column]
		if !ok {
			return fmt.Errorf("column %d is not assigned to any tile: %w", column, ErrInternal)
		}
		if tile < 0 || tile >= p.tiles {
			return fmt.Errorf("column %d assigned to tile %d not in [0,%d): %w", column, tile, p.tiles, ErrInternal)
		}
	}
	return nil
}

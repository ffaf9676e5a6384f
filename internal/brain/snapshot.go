package brain

import (
	"fmt"

	tilemath "github.com/drakos74/tile-brain/internal/math"
)

// State is the exported state of a clusterer.
type State struct {
	Rate    float64     `json:"rate"`
	Columns int         `json:"columns"`
	Means   [][]float64 `json:"means"`
	Closest []int       `json:"closest"`
	Count   int         `json:"count"`
}

// Snapshot returns a copy of the clusterer state.
func (c *Clusterer) Snapshot() State {
	means := make([][]float64, len(c.means))
	for i, mean := range c.means {
		means[i] = mean.Copy()
	}
	closest := make([]int, len(c.closest))
	copy(closest, c.closest)
	return State{
		Rate:    c.rate,
		Columns: c.columns,
		Means:   means,
		Closest: closest,
		Count:   c.count,
	}
}

// Restore re-creates a clusterer from the given state.
func Restore(state State) (*Clusterer, error) {
	seeds := make([]tilemath.Sample, len(state.Means))
	for i, mean := range state.Means {
		seeds[i] = tilemath.NewSample(mean...)
	}
	c, err := NewClusterer(state.Rate, state.Columns, seeds)
	if err != nil {
		return nil, fmt.Errorf("could not restore clusterer: %w", err)
	}
	if len(state.Closest) != len(seeds) {
		return nil, fmt.Errorf("found %d counters for %d clusters: %w", len(state.Closest), len(seeds), ErrInvalidArgument)
	}
	sum := 0
	for i, n := range state.Closest {
		if n < 0 {
			return nil, fmt.Errorf("negative counter for cluster %d: %w", i, ErrInvalidArgument)
		}
		sum += n
	}
	if sum != state.Count {
		return nil, fmt.Errorf("counters add up to %d instead of %d: %w", sum, state.Count, ErrInvalidArgument)
	}
	copy(c.closest, state.Closest)
	c.count = state.Count
	return c, nil
}

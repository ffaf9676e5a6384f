package brain

import (
	"fmt"
	"math/rand"

	tilemath "github.com/drakos74/tile-brain/internal/math"
)

// Seeder creates the k initial centroids of the given number of columns.
type Seeder func(k, columns int) ([]tilemath.Sample, error)

// ZeroSeeds starts all clusters at the origin.
// NOTE : with identical seeds the first cluster attracts every sample until it moves away.
func ZeroSeeds(k, columns int) ([]tilemath.Sample, error) {
	seeds := make([]tilemath.Sample, k)
	for i := range seeds {
		seeds[i] = tilemath.NewZeroSample(columns)
	}
	return seeds, nil
}

// RandomSeeds draws every weight uniformly from [0,scale).
func RandomSeeds(src rand.Source, scale float64) Seeder {
	rnd := rand.New(src)
	return func(k, columns int) ([]tilemath.Sample, error) {
		if scale <= 0 {
			return nil, fmt.Errorf("scale must be positive '%v': %w", scale, ErrInvalidArgument)
		}
		seeds := make([]tilemath.Sample, k)
		for i := range seeds {
			seed := tilemath.NewZeroSample(columns)
			for j := range seed {
				seed[j] = scale * rnd.Float64()
			}
			seeds[i] = seed
		}
		return seeds, nil
	}
}

// SampleSeeds uses the first k distinct samples as the initial centroids.
func SampleSeeds(samples []tilemath.Sample) Seeder {
	return func(k, columns int) ([]tilemath.Sample, error) {
		seeds := make([]tilemath.Sample, 0, k)
	Samples:
		for _, s := range samples {
			if len(seeds) == k {
				break
			}
			if s.Columns() != columns {
				return nil, fmt.Errorf("sample has %d columns instead of %d: %w", s.Columns(), columns, ErrInvalidArgument)
			}
			for _, seed := range seeds {
				if seed.Equal(s) {
					continue Samples
				}
			}
			seeds = append(seeds, s.Copy())
		}
		if len(seeds) < k {
			return nil, fmt.Errorf("found %d distinct samples for %d clusters: %w", len(seeds), k, ErrInvalidArgument)
		}
		return seeds, nil
	}
}

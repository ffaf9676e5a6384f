// Package brain learns column access patterns and derives storage tile layouts from them.
package brain

import (
	"fmt"
	"math"
	"strings"

	tilemath "github.com/drakos74/tile-brain/internal/math"
	"github.com/rs/zerolog/log"
)

// Clusterer learns access pattern clusters from a stream of samples.
// It keeps a fixed number of centroids and moves the closest one towards every new sample.
// NOTE : the clusterer is not safe for concurrent use, callers need to serialise access.
type Clusterer struct {
	means   []tilemath.Sample
	closest []int
	count   int
	rate    float64
	columns int
}

// NewClusterer creates a new clusterer with one cluster per seed.
// rate is the weight of a new sample relative to the current centroid and must be in (0,1].
func NewClusterer(rate float64, columns int, seeds []tilemath.Sample) (*Clusterer, error) {
	if len(seeds) < 1 {
		return nil, fmt.Errorf("at least one seed is needed: %w", ErrInvalidArgument)
	}
	if columns < 1 {
		return nil, fmt.Errorf("column count must be positive '%d': %w", columns, ErrInvalidArgument)
	}
	if math.IsNaN(rate) || rate <= 0 || rate > 1 {
		return nil, fmt.Errorf("learning rate must be in (0,1] '%v': %w", rate, ErrInvalidArgument)
	}
	means := make([]tilemath.Sample, len(seeds))
	for i, seed := range seeds {
		if seed.Columns() != columns {
			return nil, fmt.Errorf("seed %d has %d columns instead of %d: %w", i, seed.Columns(), columns, ErrInvalidArgument)
		}
		means[i] = seed.Copy()
	}
	log.Debug().
		Int("clusters", len(means)).
		Int("columns", columns).
		Float64("rate", rate).
		Msg("created clusterer")
	return &Clusterer{
		means:   means,
		closest: make([]int, len(means)),
		rate:    rate,
		columns: columns,
	}, nil
}

// NewClustererWith creates a new clusterer with k clusters seeded by the given seeder.
func NewClustererWith(k, columns int, rate float64, seeder Seeder) (*Clusterer, error) {
	if k < 1 || columns < 1 {
		return nil, fmt.Errorf("invalid dimensions [ %d | %d ]: %w", k, columns, ErrInvalidArgument)
	}
	seeds, err := seeder(k, columns)
	if err != nil {
		return nil, fmt.Errorf("could not seed clusters: %w", err)
	}
	if len(seeds) != k {
		return nil, fmt.Errorf("seeder returned %d seeds instead of %d: %w", len(seeds), k, ErrInvalidArgument)
	}
	return NewClusterer(rate, columns, seeds)
}

// NearestCentroid returns the cluster with the closest centroid to the sample.
// On equal distances the lowest cluster index wins.
func (c *Clusterer) NearestCentroid(sample tilemath.Sample) (int, error) {
	if sample.Columns() != c.columns {
		return 0, fmt.Errorf("sample has %d columns instead of %d: %w", sample.Columns(), c.columns, ErrInvalidArgument)
	}
	minDistance := math.MaxFloat64
	closest := 0
	for i, mean := range c.means {
		if d := sample.Distance(mean); d < minDistance {
			closest = i
			minDistance = d
		}
	}
	return closest, nil
}

// RecordAssignment counts one more sample against the given cluster.
func (c *Clusterer) RecordAssignment(cluster int) error {
	if err := c.check(cluster); err != nil {
		return err
	}
	c.closest[cluster]++
	c.count++
	return nil
}

// FindClosestCluster finds the nearest centroid for the sample and records the assignment.
// NOTE : this is not a pure query, every call updates the usage counters.
func (c *Clusterer) FindClosestCluster(sample tilemath.Sample) (int, error) {
	cluster, err := c.NearestCentroid(sample)
	if err != nil {
		return 0, err
	}
	if err := c.RecordAssignment(cluster); err != nil {
		return 0, err
	}
	return cluster, nil
}

// ProcessSample assigns the sample to its closest cluster
// and moves that cluster's centroid towards it by the learning rate.
// It returns the cluster the sample was assigned to.
func (c *Clusterer) ProcessSample(sample tilemath.Sample) (int, error) {
	cluster, err := c.FindClosestCluster(sample)
	if err != nil {
		return 0, err
	}
	drift := sample.Difference(c.means[cluster]).Scale(c.rate)
	c.means[cluster] = c.means[cluster].Add(drift)
	return cluster, nil
}

// Cluster returns a copy of the centroid of the given cluster.
func (c *Clusterer) Cluster(cluster int) (tilemath.Sample, error) {
	if err := c.check(cluster); err != nil {
		return nil, err
	}
	return c.means[cluster].Copy(), nil
}

// Fraction returns the share of samples assigned to the given cluster.
// Before any sample is processed all fractions are zero.
func (c *Clusterer) Fraction(cluster int) (float64, error) {
	if err := c.check(cluster); err != nil {
		return 0, err
	}
	return c.fraction(cluster), nil
}

func (c *Clusterer) fraction(cluster int) float64 {
	if c.count == 0 {
		return 0
	}
	return float64(c.closest[cluster]) / float64(c.count)
}

// ClusterCount returns the number of clusters.
func (c *Clusterer) ClusterCount() int {
	return len(c.means)
}

// Columns returns the dimension of the samples.
func (c *Clusterer) Columns() int {
	return c.columns
}

// SampleCount returns the number of recorded assignments.
func (c *Clusterer) SampleCount() int {
	return c.count
}

// Rate returns the learning rate.
func (c *Clusterer) Rate() float64 {
	return c.rate
}

func (c *Clusterer) check(cluster int) error {
	if cluster < 0 || cluster >= len(c.means) {
		return fmt.Errorf("cluster %d not in [0,%d): %w", cluster, len(c.means), ErrIndexOutOfRange)
	}
	return nil
}

func (c *Clusterer) String() string {
	var sb strings.Builder
	for i, mean := range c.means {
		sb.WriteString(fmt.Sprintf("%d : %s :: %s\n", i, tilemath.Format(c.fraction(i)), mean.String()))
	}
	return sb.String()
}

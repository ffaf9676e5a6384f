// Package buffer keeps running statistics over streams of values.
package buffer

import (
	"fmt"
	"math"
)

// Access keeps running statistics of the access weights of one column.
type Access struct {
	count          int
	hits           int
	threshold      float64
	min, max       float64
	mean, dSquared float64
	ema            float64
}

// NewAccess creates a new Access.
// A weight above the threshold counts as a hit on the column.
func NewAccess(threshold float64) *Access {
	return &Access{
		threshold: threshold,
		min:       math.MaxFloat64,
	}
}

// Push adds another weight to the set.
func (a *Access) Push(v float64) {
	a.count++
	diff := (v - a.mean) / float64(a.count)
	mean := a.mean + diff
	a.dSquared += (v - mean) * (v - a.mean)
	a.mean = mean

	w := 2 / float64(a.count+1)
	a.ema = v*w + a.ema*(1-w)

	if v > a.threshold {
		a.hits++
	}
	if a.min > v {
		a.min = v
	}
	if a.max < v {
		a.max = v
	}
}

// Count returns the number of weights.
func (a Access) Count() int {
	return a.count
}

// Hits returns the number of weights above the threshold.
func (a Access) Hits() int {
	return a.hits
}

// HitRatio is the share of weights above the threshold.
func (a Access) HitRatio() float64 {
	if a.count == 0 {
		return 0
	}
	return float64(a.hits) / float64(a.count)
}

// Avg returns the average weight.
func (a Access) Avg() float64 {
	return a.mean
}

// EMA is the exponential moving average of the weights.
func (a Access) EMA() float64 {
	return a.ema
}

// Min returns the smallest weight, zero if there is none.
func (a Access) Min() float64 {
	if a.count == 0 {
		return 0
	}
	return a.min
}

// Max returns the largest weight.
func (a Access) Max() float64 {
	return a.max
}

// Variance is the mathematical variance of the weights.
func (a Access) Variance() float64 {
	if a.count == 0 {
		return 0
	}
	return a.dSquared / float64(a.count)
}

// StDev is the standard deviation of the weights.
func (a Access) StDev() float64 {
	return math.Sqrt(a.Variance())
}

// AccessCollector tracks the Access of every column of a table.
type AccessCollector struct {
	columns []*Access
}

// NewAccessCollector creates a new collector for the given number of columns.
func NewAccessCollector(columns int, threshold float64) *AccessCollector {
	cc := make([]*Access, columns)
	for i := range cc {
		cc[i] = NewAccess(threshold)
	}
	return &AccessCollector{
		columns: cc,
	}
}

// Push pushes each weight to the corresponding column.
func (ac *AccessCollector) Push(v ...float64) error {
	if len(v) != len(ac.columns) {
		return fmt.Errorf("inconsistent dimensions %d vs %d", len(v), len(ac.columns))
	}
	for i, w := range v {
		ac.columns[i].Push(w)
	}
	return nil
}

// Columns returns a copy of the current Access of every column.
func (ac AccessCollector) Columns() []Access {
	aa := make([]Access, len(ac.columns))
	for i, a := range ac.columns {
		aa[i] = *a
	}
	return aa
}

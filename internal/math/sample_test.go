package math

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSample_Distance(t *testing.T) {

	type test struct {
		a, b     Sample
		distance float64
	}

	tests := map[string]test{
		"same": {
			a:        NewSample(1, 2, 3),
			b:        NewSample(1, 2, 3),
			distance: 0,
		},
		"unit": {
			a:        NewSample(9, 11, 10),
			b:        NewSample(10, 10, 10),
			distance: math.Sqrt2,
		},
		"origin": {
			a:        NewSample(9, 11, 10),
			b:        NewZeroSample(3),
			distance: math.Sqrt(302),
		},
		"3-4-5": {
			a:        NewSample(0, 3),
			b:        NewSample(4, 0),
			distance: 5,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, tt.distance, tt.a.Distance(tt.b), 1e-12)
			assert.InDelta(t, tt.distance, tt.b.Distance(tt.a), 1e-12)
		})
	}
}

func TestSample_Arithmetic(t *testing.T) {
	a := NewSample(9, 11, 10)
	b := NewSample(10, 10, 10)

	diff := a.Difference(b)
	assert.Equal(t, Sample{-1, 1, 0}, diff)

	drift := diff.Scale(0.5)
	assert.Equal(t, Sample{-0.5, 0.5, 0}, drift)

	assert.Equal(t, Sample{9.5, 10.5, 10}, b.Add(drift))

	// inputs are never modified
	assert.Equal(t, Sample{9, 11, 10}, a)
	assert.Equal(t, Sample{10, 10, 10}, b)
}

func TestSample_Copy(t *testing.T) {
	weights := []float64{1, 2}
	s := NewSample(weights...)
	weights[0] = 5
	assert.Equal(t, Sample{1, 2}, s)

	c := s.Copy()
	c[1] = 7
	assert.Equal(t, Sample{1, 2}, s)
	assert.True(t, s.Equal(NewSample(1, 2)))
	assert.False(t, s.Equal(c))
}

func TestSample_EnabledColumns(t *testing.T) {

	type test struct {
		sample  Sample
		columns []uint32
	}

	tests := map[string]test{
		"none": {
			sample:  NewZeroSample(4),
			columns: []uint32{},
		},
		"threshold-is-exclusive": {
			sample:  NewSample(EnabledThreshold, 0.51, 1, 0.2),
			columns: []uint32{1, 2},
		},
		"all": {
			sample:  NewSample(3, 1, 0.9),
			columns: []uint32{0, 1, 2},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.columns, tt.sample.EnabledColumns().ToArray())
		})
	}
}

func TestSample_String(t *testing.T) {
	assert.Equal(t, "[9.50 10.50 0.00]", NewSample(9.5, 10.5, 0).String())
}

package math

import (
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/floats"
)

// EnabledThreshold is the weight a column must exceed for a sample to consider it enabled.
const EnabledThreshold = 0.5

// Sample is a vector of column weights.
// Index i holds the access intensity of column i.
type Sample []float64

// NewSample creates a new sample from the given weights.
func NewSample(weights ...float64) Sample {
	s := make(Sample, len(weights))
	copy(s, weights)
	return s
}

// NewZeroSample creates a sample of the given number of columns with all weights set to zero.
func NewZeroSample(columns int) Sample {
	return make(Sample, columns)
}

// Columns returns the dimension of the sample.
func (s Sample) Columns() int {
	return len(s)
}

// Copy returns a deep copy of the sample.
func (s Sample) Copy() Sample {
	return NewSample(s...)
}

// Distance returns the euclidean distance between the two samples.
// NOTE : samples of different dimensions will panic
func (s Sample) Distance(other Sample) float64 {
	return floats.Distance(s, other, 2)
}

// Difference returns the pointwise difference s - other.
func (s Sample) Difference(other Sample) Sample {
	return floats.SubTo(make(Sample, len(s)), s, other)
}

// Scale multiplies every weight with the given factor.
func (s Sample) Scale(f float64) Sample {
	scaled := s.Copy()
	floats.Scale(f, scaled)
	return scaled
}

// Add returns the pointwise sum of the two samples.
func (s Sample) Add(other Sample) Sample {
	return floats.AddTo(make(Sample, len(s)), s, other)
}

// Equal checks if both samples carry exactly the same weights.
func (s Sample) Equal(other Sample) bool {
	return floats.Equal(s, other)
}

// EnabledColumns returns the columns with a weight above the EnabledThreshold.
func (s Sample) EnabledColumns() *roaring.Bitmap {
	enabled := roaring.New()
	for i, w := range s {
		if w > EnabledThreshold {
			enabled.Add(uint32(i))
		}
	}
	return enabled
}

func (s Sample) String() string {
	ww := make([]string, len(s))
	for i, w := range s {
		ww[i] = Format(w)
	}
	return fmt.Sprintf("[%s]", strings.Join(ww, " "))
}

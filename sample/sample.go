package sample

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/fedpower/power"
)

// Sample is an ordered column of observations. NaN marks a missing value.
type Sample struct {
	Values []float64
	Name   string
}

// New creates a sample from values. The slice is not copied.
func New(values []float64) *Sample {
	return &Sample{Values: values}
}

// Len returns the number of observations, missing ones included.
func (s *Sample) Len() int {
	return len(s.Values)
}

// Missing returns the number of NaN observations.
func (s *Sample) Missing() int {
	n := 0
	for _, v := range s.Values {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// DropNaN returns a copy without missing observations.
func (s *Sample) DropNaN() *Sample {
	values := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	return &Sample{Values: values, Name: s.Name}
}

// Copy creates a deep copy of the sample.
func (s *Sample) Copy() *Sample {
	return &Sample{Values: slices.Clone(s.Values), Name: s.Name}
}

// Mean returns the arithmetic mean of the observed values, or 0 when there
// are none.
func (s *Sample) Mean() float64 {
	x := s.DropNaN().Values
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// Variance returns the unbiased sample variance of the observed values.
func (s *Sample) Variance() float64 {
	x := s.DropNaN().Values
	if len(x) < 2 {
		return 0
	}
	return stat.Variance(x, nil)
}

// Std returns the sample standard deviation.
func (s *Sample) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the smallest observed value, NaN when there is none.
func (s *Sample) Min() float64 {
	x := s.DropNaN().Values
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Min(x)
}

// Max returns the largest observed value, NaN when there is none.
func (s *Sample) Max() float64 {
	x := s.DropNaN().Values
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Max(x)
}

// Median returns the median of the observed values.
func (s *Sample) Median() float64 {
	x := s.DropNaN().Values
	if len(x) == 0 {
		return math.NaN()
	}
	slices.Sort(x)

	n := len(x)
	if n%2 == 0 {
		return (x[n/2-1] + x[n/2]) / 2
	}
	return x[n/2]
}

// Positive reports whether every observed value is strictly positive, the
// Box-Cox domain.
func (s *Sample) Positive() bool {
	for _, v := range s.Values {
		if v <= 0 {
			return false
		}
	}
	return true
}

// Transform applies the power transform with exponent lmb. Missing values
// stay missing.
func (s *Sample) Transform(f power.Family, lmb float64) *Sample {
	return &Sample{
		Values: power.TransformSlice(f, lmb, s.Values),
		Name:   s.Name + "_" + f.String(),
	}
}

// Summary holds descriptive statistics of a sample.
type Summary struct {
	Name     string  `json:"name,omitempty"`
	N        int     `json:"n"`
	Missing  int     `json:"missing"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Median   float64 `json:"median"`
	Max      float64 `json:"max"`
	Positive bool    `json:"positive"`
}

// Describe summarises the sample.
func (s *Sample) Describe() Summary {
	return Summary{
		Name:     s.Name,
		N:        s.Len() - s.Missing(),
		Missing:  s.Missing(),
		Mean:     s.Mean(),
		Std:      s.Std(),
		Min:      s.Min(),
		Median:   s.Median(),
		Max:      s.Max(),
		Positive: s.Positive(),
	}
}

package distance

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Dot calculates the dot product of two vectors.
// Panics if the vectors differ in length.
func Dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// Norm returns the L2 norm of v.
func Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Panics if the vectors differ in length.
func SquaredL2(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

// Cosine returns the cosine distance 1 - a·b/(|a||b|).
//
// A zero-length vector has no direction; its distance to anything is
// defined as 1 instead of NaN. Rounding is clamped to [0, 2].
func Cosine(a, b []float64) float64 {
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 1
	}
	d := 1 - floats.Dot(a, b)/(na*nb)
	return math.Max(0, math.Min(2, d))
}

// Metric represents the distance metric used for joint comparison.
type Metric int

const (
	MetricCosine Metric = iota
	MetricL2
)

func (m Metric) String() string {
	switch m {
	case MetricCosine:
		return "Cosine"
	case MetricL2:
		return "L2"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric returns the Metric named s ("cosine" or "l2", any case).
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(s) {
	case "cosine":
		return MetricCosine, nil
	case "l2":
		return MetricL2, nil
	default:
		return 0, fmt.Errorf("unsupported metric: %q", s)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float64) float64

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricCosine:
		return Cosine, nil
	case MetricL2:
		return SquaredL2, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}

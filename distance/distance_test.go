package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 32},
		{"Zero", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Mixed", []float64{1, -1, 2}, []float64{1, 1, -2}, -4},
		{"Empty", []float64{}, []float64{}, 0},
		{"Single", []float64{2}, []float64{3}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Dot(tt.a, tt.b), 1e-12)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 27},
		{"Zero", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"Mixed", []float64{1, -1}, []float64{-1, 1}, 8}, // (1 - -1)^2 + (-1 - 1)^2 = 4 + 4 = 8
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SquaredL2(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Identical", []float64{0.3, -0.2}, []float64{0.3, -0.2}, 0},
		{"SameDirection", []float64{1, 1}, []float64{3, 3}, 0},
		{"Orthogonal", []float64{1, 0}, []float64{0, 1}, 1},
		{"Opposite", []float64{1, 0}, []float64{-2, 0}, 2},
		{"LeftZero", []float64{0, 0}, []float64{1, 0}, 1},
		{"RightZero", []float64{1, 0}, []float64{0, 0}, 1},
		{"BothZero", []float64{0, 0}, []float64{0, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5.0, Norm([]float64{3, 4}), 1e-12)
	assert.Equal(t, 0.0, Norm([]float64{0, 0}))
}

func TestMetric(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "L2", MetricL2.String())
		assert.Equal(t, "Cosine", MetricCosine.String())
		assert.Equal(t, "Unknown(99)", Metric(99).String())
	})

	t.Run("Provider", func(t *testing.T) {
		f, err := Provider(MetricL2)
		require.NoError(t, err)
		assert.InDelta(t, 27.0, f([]float64{1, 2, 3}, []float64{4, 5, 6}), 1e-9)

		f, err = Provider(MetricCosine)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, f([]float64{1, 0}, []float64{0, 1}), 1e-12)

		_, err = Provider(Metric(99))
		assert.Error(t, err)
	})

	t.Run("Parse", func(t *testing.T) {
		m, err := ParseMetric("L2")
		require.NoError(t, err)
		assert.Equal(t, MetricL2, m)

		m, err = ParseMetric("cosine")
		require.NoError(t, err)
		assert.Equal(t, MetricCosine, m)

		_, err = ParseMetric("manhattan")
		assert.Error(t, err)
	})
}

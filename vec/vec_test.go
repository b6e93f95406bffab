package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}

	assert.InDelta(t, 1.0, Cosine(a, a), 1e-6)
	assert.InDelta(t, 0.0, Cosine(a, b), 1e-6)

	// Scale invariance.
	scaled := []float32{5, 0, 0}
	assert.InDelta(t, 1.0, Cosine(a, scaled), 1e-6)
}

func TestCosineDegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, Cosine(nil, []float32{1}))
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}))
}

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}
	n := Normalize(v)

	assert.InDelta(t, 0.6, float64(n[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(n[1]), 1e-6)
	assert.InDelta(t, 1.0, Norm(n), 1e-6)

	// The input is left untouched.
	assert.Equal(t, float32(3), v[0])
}

func TestCentroid(t *testing.T) {
	c := Centroid([][]float32{
		{0, 0},
		{2, 4},
	})
	assert.Equal(t, []float32{1, 2}, c)

	assert.Nil(t, Centroid(nil))
}

func TestDot(t *testing.T) {
	assert.InDelta(t, 11.0, Dot([]float32{1, 2}, []float32{3, 4}), 1e-6)
}

package vec

import "math"

// Dot returns the dot product of two vectors.
// Mismatched lengths are truncated to the shorter vector.
func Dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Norm returns the Euclidean norm of a vector.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity of two vectors.
// Returns 0 if either vector is empty or zero.
func Cosine(a, b []float32) float64 {
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// Normalize normalizes a vector to unit length.
// Returns a new vector. If the input is a zero vector, returns a zero vector.
func Normalize(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	magnitude := Norm(v)

	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}

	for i, x := range v {
		result[i] = float32(float64(x) / magnitude)
	}
	return result
}

// Centroid returns the arithmetic mean of the given vectors.
// Vectors shorter than the first are ignored beyond their length.
// Returns nil for empty input.
func Centroid(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	for _, v := range vectors {
		for i := 0; i < dim && i < len(v); i++ {
			sum[i] += float64(v[i])
		}
	}

	centroid := make([]float32, dim)
	for i := range sum {
		centroid[i] = float32(sum[i] / float64(len(vectors)))
	}
	return centroid
}

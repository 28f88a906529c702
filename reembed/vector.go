package reembed

import "math"

// NormalizeVector scales an embedding to unit length so that chunk distances
// computed downstream behave as cosine similarity. The input is not modified.
// A zero vector has no direction and comes back as a zero vector of the same
// dimension.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var sum float32
	for _, val := range v {
		sum += val * val
	}
	magnitude := float32(math.Sqrt(float64(sum)))

	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}

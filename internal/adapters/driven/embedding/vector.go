// Package embedding holds helpers shared by the embedding adapters.
// Providers live in the subpackages.
package embedding

import "math"

// Normalize scales vec to unit length in place and returns it.
// Zero vectors are returned unchanged.
func Normalize(vec []float64) []float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// Fit truncates or zero-pads vec to dims and renormalises it.
// dims <= 0 leaves the length unchanged.
func Fit(vec []float64, dims int) []float64 {
	if dims <= 0 || len(vec) == dims {
		return Normalize(vec)
	}
	out := make([]float64, dims)
	copy(out, vec)
	return Normalize(out)
}

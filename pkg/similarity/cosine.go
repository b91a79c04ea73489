// Package similarity provides vector similarity math and greedy grouping of
// near-identical text fragments.
package similarity

import (
	"errors"
	"math"
)

// ErrDimensionMismatch indicates vectors of different lengths were compared.
// Embedding dimensionality is a deployment constant, so hitting this means a
// configuration or programming error, not bad request input.
var ErrDimensionMismatch = errors.New("vectors must have the same dimensions")

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. If either vector has zero magnitude the result is 0.0: a zero
// vector carries no direction and is treated as maximally dissimilar rather
// than as an error.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}

	magA = math.Sqrt(magA)
	magB = math.Sqrt(magB)
	if magA == 0 || magB == 0 {
		return 0, nil
	}

	return dot / (magA * magB), nil
}

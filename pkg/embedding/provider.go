package embedding

import (
	"context"
	"math"
)

// EmbeddingProvider generates a fixed-length vector for a piece of text.
// Implementations must return unit-length (L2 normalized) vectors so cosine
// similarity downstream is just a dot product away from being exact.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dim is the vector length this provider produces. It must match the
	// deployment's configured vector size.
	Dim() int
}

// normalizeVector scales vec to unit length (magnitude = 1).
// Required for accurate cosine similarity on provider outputs.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	// Avoid division by zero
	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}

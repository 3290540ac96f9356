package domain

import "math"

// Vector is a fixed-dimension embedding.
type Vector []float32

// ZeroVector returns a vector of d zeros.
func ZeroVector(d int) Vector {
	return make(Vector, d)
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Mismatched, empty or zero-norm vectors score 0.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

package memory

import (
	"context"
	"math"

	"github.com/aretw0/punchline/pkg/domain"
)

// HashEmbedder produces deterministic embeddings without any external service.
// The same text always yields the same unit vector, so exact repeats are
// detected as duplicates while unrelated texts rarely collide.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates an embedder producing vectors of dimension dim.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = 1024
	}
	return &HashEmbedder{dim: dim}
}

// Embed hashes the text into a normalized vector.
func (e *HashEmbedder) Embed(ctx context.Context, text string) (domain.Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make(domain.Vector, e.dim)
	for i := range vec {
		h := 0
		for j, c := range text {
			h += int(c) * (i + 1) * (j + 1)
		}
		vec[i] = float32(h%1000) / 1000.0
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec, nil
}

// Dimension returns the vector length.
func (e *HashEmbedder) Dimension() int {
	return e.dim
}

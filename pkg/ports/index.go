package ports

import (
	"context"

	"github.com/aretw0/punchline/pkg/domain"
)

// Match is the nearest neighbour returned by a SimilarityIndex.
type Match struct {
	ID       string
	Score    float64 // cosine similarity
	Metadata map[string]string
}

// SimilarityIndex is a persistent nearest-neighbour store over joke vectors.
type SimilarityIndex interface {
	// Upsert inserts or replaces the vector stored under id.
	Upsert(ctx context.Context, id string, vector domain.Vector, metadata map[string]string) error

	// QueryNearest returns the single most similar stored vector.
	// It returns (nil, nil) when the index is empty.
	QueryNearest(ctx context.Context, vector domain.Vector) (*Match, error)
}

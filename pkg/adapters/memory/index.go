package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/ports"
)

type entry struct {
	vector   domain.Vector
	metadata map[string]string
}

// Index implements ports.SimilarityIndex with a brute-force cosine scan.
// Safe for concurrent use.
type Index struct {
	entries map[string]entry
	order   []string
	mu      sync.RWMutex
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]entry)}
}

// Upsert stores a copy of the vector and metadata under id.
func (i *Index) Upsert(ctx context.Context, id string, vector domain.Vector, metadata map[string]string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.entries[id]; !ok {
		i.order = append(i.order, id)
	}
	i.entries[id] = entry{
		vector:   append(domain.Vector(nil), vector...),
		metadata: maps.Clone(metadata),
	}
	return nil
}

// QueryNearest returns the best cosine match, or nil when the index is empty.
// Ties keep the earliest inserted vector.
func (i *Index) QueryNearest(ctx context.Context, vector domain.Vector) (*ports.Match, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	var best *ports.Match
	for _, id := range i.order {
		e := i.entries[id]
		score := domain.CosineSimilarity(vector, e.vector)
		if best == nil || score > best.Score {
			best = &ports.Match{ID: id, Score: score, Metadata: maps.Clone(e.metadata)}
		}
	}
	return best, nil
}

// Len reports the number of stored vectors.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

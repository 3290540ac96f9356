package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

type record struct {
	Values   domain.Vector     `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Index implements ports.SimilarityIndex on a Redis hash (id -> vector JSON).
// Queries fetch the whole hash and rank it by cosine similarity, which is
// fine for catalogs of a few thousand jokes.
type Index struct {
	client *backend.Client
	key    string
}

// NewIndex creates an index stored under "<prefix>index".
func NewIndex(client *backend.Client, opts ...Option) *Index {
	cfg := newConfig(opts)
	return &Index{client: client, key: cfg.prefix + "index"}
}

// Upsert sets the hash field for id.
func (i *Index) Upsert(ctx context.Context, id string, vector domain.Vector, metadata map[string]string) error {
	data, err := json.Marshal(record{Values: vector, Metadata: metadata})
	if err != nil {
		return fmt.Errorf("failed to marshal vector: %w", err)
	}
	if err := i.client.HSet(ctx, i.key, id, data).Err(); err != nil {
		return fmt.Errorf("failed to upsert vector in redis: %w", err)
	}
	return nil
}

// QueryNearest returns the best cosine match, or nil when the hash is empty.
func (i *Index) QueryNearest(ctx context.Context, vector domain.Vector) (*ports.Match, error) {
	all, err := i.client.HGetAll(ctx, i.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read index from redis: %w", err)
	}

	// Stable order so ties resolve the same way on every call.
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var best *ports.Match
	for _, id := range ids {
		var rec record
		if err := json.Unmarshal([]byte(all[id]), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal vector %s: %w", id, err)
		}
		score := domain.CosineSimilarity(vector, rec.Values)
		if best == nil || score > best.Score {
			best = &ports.Match{ID: id, Score: score, Metadata: rec.Metadata}
		}
	}
	return best, nil
}

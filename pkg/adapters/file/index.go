package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/ports"
)

// DefaultIndexPath is the vector file used when none is configured.
const DefaultIndexPath = "jokes_index.json"

type record struct {
	ID       string            `json:"id"`
	Values   domain.Vector     `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Index implements ports.SimilarityIndex over a local JSON file of vectors.
// Queries load the file and scan it with cosine similarity.
type Index struct {
	Path string
	mu   sync.Mutex
}

// NewIndex creates an index stored at path.
// If path is empty, it defaults to DefaultIndexPath.
func NewIndex(path string) *Index {
	if path == "" {
		path = DefaultIndexPath
	}
	return &Index{Path: path}
}

// Upsert inserts or replaces the vector stored under id.
func (i *Index) Upsert(ctx context.Context, id string, vector domain.Vector, metadata map[string]string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	records, err := i.read()
	if err != nil {
		return err
	}

	rec := record{ID: id, Values: vector, Metadata: metadata}
	replaced := false
	for n := range records {
		if records[n].ID == id {
			records[n] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	return writeAtomic(i.Path, data)
}

// QueryNearest returns the best cosine match, or nil when the file holds no vectors.
func (i *Index) QueryNearest(ctx context.Context, vector domain.Vector) (*ports.Match, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	records, err := i.read()
	if err != nil {
		return nil, err
	}

	var best *ports.Match
	for _, rec := range records {
		score := domain.CosineSimilarity(vector, rec.Values)
		if best == nil || score > best.Score {
			best = &ports.Match{ID: rec.ID, Score: score, Metadata: rec.Metadata}
		}
	}
	return best, nil
}

func (i *Index) read() ([]record, error) {
	data, err := os.ReadFile(i.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}
	return records, nil
}

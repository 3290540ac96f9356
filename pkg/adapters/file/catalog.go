package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/aretw0/punchline/pkg/domain"
)

// DefaultCatalogPath is the catalog file used when none is configured.
const DefaultCatalogPath = "jokes_catalog.json"

// Catalog implements ports.Catalog as a JSON array on the local filesystem.
// Every Append reads the whole file, appends and rewrites it atomically.
type Catalog struct {
	Path string
	mu   sync.Mutex
}

// NewCatalog creates a catalog stored at path.
// If path is empty, it defaults to DefaultCatalogPath.
func NewCatalog(path string) *Catalog {
	if path == "" {
		path = DefaultCatalogPath
	}
	return &Catalog{Path: path}
}

// Append adds the joke to the end of the JSON array.
func (c *Catalog) Append(ctx context.Context, joke domain.Joke) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	jokes, err := c.read()
	if err != nil {
		return err
	}
	jokes = append(jokes, joke)

	data, err := json.MarshalIndent(jokes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return writeAtomic(c.Path, data)
}

// Recent returns the last n jokes in file order.
func (c *Catalog) Recent(ctx context.Context, n int) ([]domain.Joke, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n <= 0 {
		return []domain.Joke{}, nil
	}
	jokes, err := c.read()
	if err != nil {
		return nil, err
	}
	start := max(len(jokes)-n, 0)
	return jokes[start:], nil
}

func (c *Catalog) read() ([]domain.Joke, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Joke{}, nil
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	if len(data) == 0 {
		return []domain.Joke{}, nil
	}

	var jokes []domain.Joke
	if err := json.Unmarshal(data, &jokes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	if jokes == nil {
		jokes = []domain.Joke{}
	}
	return jokes, nil
}

package memory

import (
	"context"
	"sync"

	"github.com/aretw0/punchline/pkg/domain"
)

// Catalog implements ports.Catalog in memory.
// Safe for concurrent use.
type Catalog struct {
	jokes []domain.Joke
	mu    sync.RWMutex
}

// NewCatalog creates a new in-memory catalog, optionally seeded with jokes.
func NewCatalog(seed ...domain.Joke) *Catalog {
	return &Catalog{jokes: append([]domain.Joke(nil), seed...)}
}

// Append adds the joke at the end of the log.
func (c *Catalog) Append(ctx context.Context, joke domain.Joke) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jokes = append(c.jokes, joke)
	return nil
}

// Recent returns a copy of the last n jokes, oldest first.
func (c *Catalog) Recent(ctx context.Context, n int) ([]domain.Joke, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if n <= 0 {
		return []domain.Joke{}, nil
	}
	start := max(len(c.jokes)-n, 0)
	return append([]domain.Joke{}, c.jokes[start:]...), nil
}

// Len reports the number of stored jokes.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.jokes)
}

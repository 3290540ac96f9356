package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/punchline/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Catalog implements ports.Catalog as a Redis list of JSON documents.
type Catalog struct {
	client *backend.Client
	key    string
}

// NewCatalog creates a catalog stored under "<prefix>catalog".
func NewCatalog(client *backend.Client, opts ...Option) *Catalog {
	cfg := newConfig(opts)
	return &Catalog{client: client, key: cfg.prefix + "catalog"}
}

// Append pushes the joke onto the tail of the list.
func (c *Catalog) Append(ctx context.Context, joke domain.Joke) error {
	data, err := json.Marshal(joke)
	if err != nil {
		return fmt.Errorf("failed to marshal joke: %w", err)
	}
	if err := c.client.RPush(ctx, c.key, data).Err(); err != nil {
		return fmt.Errorf("failed to append to redis: %w", err)
	}
	return nil
}

// Recent returns the last n list entries, oldest first.
func (c *Catalog) Recent(ctx context.Context, n int) ([]domain.Joke, error) {
	jokes := []domain.Joke{}
	if n <= 0 {
		return jokes, nil
	}

	vals, err := c.client.LRange(ctx, c.key, int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog from redis: %w", err)
	}

	for _, val := range vals {
		var joke domain.Joke
		if err := json.Unmarshal([]byte(val), &joke); err != nil {
			return nil, fmt.Errorf("failed to unmarshal joke: %w", err)
		}
		jokes = append(jokes, joke)
	}
	return jokes, nil
}

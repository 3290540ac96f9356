// Package redis provides Redis-backed catalog, similarity index and locker adapters.
package redis

import (
	"time"

	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "punchline:"

type config struct {
	prefix       string
	pollInterval time.Duration
}

// Option configures the Redis adapters.
type Option func(*config)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithPollInterval sets how often Locker retries a contended lock.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		prefix:       DefaultPrefix,
		pollInterval: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewClient creates a Redis client for the given address.
func NewClient(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

package ports

import (
	"context"

	"github.com/aretw0/punchline/pkg/domain"
)

// Catalog is the append-only durable log of accepted jokes.
type Catalog interface {
	// Append persists a joke at the end of the log.
	Append(ctx context.Context, joke domain.Joke) error

	// Recent returns up to n of the most recently appended jokes, oldest first.
	// A missing or empty catalog yields an empty slice, not an error.
	Recent(ctx context.Context, n int) ([]domain.Joke, error)
}

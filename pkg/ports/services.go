package ports

import (
	"context"

	"github.com/aretw0/punchline/pkg/domain"
)

// Generator writes text for a prompt (the joke writer).
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Critic decides whether a draft joke is approved.
// Implementations may prompt a human or ask a model; both share this contract.
type Critic interface {
	Critique(ctx context.Context, joke string) (domain.Verdict, error)
}

// Embedder converts text into a vector of a fixed dimension.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.Vector, error)

	// Dimension returns the dimensionality of the output vectors.
	Dimension() int
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// CriticFunc adapts a function to the Critic interface.
type CriticFunc func(ctx context.Context, joke string) (domain.Verdict, error)

func (f CriticFunc) Critique(ctx context.Context, joke string) (domain.Verdict, error) {
	return f(ctx, joke)
}

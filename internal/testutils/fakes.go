// Package testutils provides scripted collaborators for engine and runner tests.
package testutils

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/ports"
)

// ErrScriptExhausted is returned when a scripted fake runs out of answers.
var ErrScriptExhausted = errors.New("script exhausted")

// ScriptedGenerator returns its jokes in order and records every prompt.
type ScriptedGenerator struct {
	mu      sync.Mutex
	jokes   []string
	Prompts []string
	Err     error
}

// NewScriptedGenerator creates a generator answering with jokes in order.
func NewScriptedGenerator(jokes ...string) *ScriptedGenerator {
	return &ScriptedGenerator{jokes: jokes}
}

func (g *ScriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Prompts = append(g.Prompts, prompt)
	if g.Err != nil {
		return "", g.Err
	}
	if len(g.jokes) == 0 {
		return "", fmt.Errorf("generate: %w", ErrScriptExhausted)
	}
	joke := g.jokes[0]
	g.jokes = g.jokes[1:]
	return joke, nil
}

// Calls returns how many times Generate ran.
func (g *ScriptedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Prompts)
}

// ScriptedCritic answers with its verdicts in order.
type ScriptedCritic struct {
	mu       sync.Mutex
	verdicts []domain.Verdict
	Seen     []string
	Err      error
}

// NewScriptedCritic creates a critic answering with verdicts in order.
func NewScriptedCritic(verdicts ...domain.Verdict) *ScriptedCritic {
	return &ScriptedCritic{verdicts: verdicts}
}

func (c *ScriptedCritic) Critique(ctx context.Context, joke string) (domain.Verdict, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Seen = append(c.Seen, joke)
	if c.Err != nil {
		return "", c.Err
	}
	if len(c.verdicts) == 0 {
		return "", fmt.Errorf("critique: %w", ErrScriptExhausted)
	}
	v := c.verdicts[0]
	c.verdicts = c.verdicts[1:]
	return v, nil
}

// MapEmbedder returns fixed vectors per text and a fallback for anything else.
type MapEmbedder struct {
	Vectors  map[string]domain.Vector
	Fallback ports.Embedder
	Err      error
}

func (m *MapEmbedder) Embed(ctx context.Context, text string) (domain.Vector, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if v, ok := m.Vectors[text]; ok {
		return append(domain.Vector{}, v...), nil
	}
	if m.Fallback == nil {
		return nil, fmt.Errorf("embed %q: no vector", text)
	}
	return m.Fallback.Embed(ctx, text)
}

func (m *MapEmbedder) Dimension() int {
	if m.Fallback != nil {
		return m.Fallback.Dimension()
	}
	for _, v := range m.Vectors {
		return len(v)
	}
	return 0
}

// FailingIndex wraps an index and fails the named operations.
type FailingIndex struct {
	ports.SimilarityIndex
	FailUpsert bool
	FailQuery  bool
	Err        error
}

func (f *FailingIndex) err() error {
	if f.Err != nil {
		return f.Err
	}
	return errors.New("index unavailable")
}

func (f *FailingIndex) Upsert(ctx context.Context, id string, vector domain.Vector, metadata map[string]string) error {
	if f.FailUpsert {
		return f.err()
	}
	return f.SimilarityIndex.Upsert(ctx, id, vector, metadata)
}

func (f *FailingIndex) QueryNearest(ctx context.Context, vector domain.Vector) (*ports.Match, error) {
	if f.FailQuery {
		return nil, f.err()
	}
	return f.SimilarityIndex.QueryNearest(ctx, vector)
}

// RecordingLocker counts lock and unlock calls.
type RecordingLocker struct {
	mu      sync.Mutex
	Locks   int
	Unlocks int
	Keys    []string
	LockErr error
}

func (l *RecordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.LockErr != nil {
		return nil, l.LockErr
	}
	l.Locks++
	l.Keys = append(l.Keys, key)
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.Unlocks++
		return nil
	}, nil
}

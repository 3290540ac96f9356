package punchline

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/punchline/internal/runtime"
	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/ports"
)

// Services groups the collaborators the engine drives. All are required.
type Services = runtime.Services

// Policy holds the numeric business rules. Zero fields keep their defaults.
type Policy = runtime.Policy

// Engine is the high-level entry point for the punchline library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	runtimeOpts []runtime.EngineOption
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithLogger(logger))
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithLifecycleHooks(hooks))
	}
}

// WithPolicy overrides retries, threshold, dimension and browse size.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithPolicy(p))
	}
}

// WithPromptBuilder sets how the writer prompt is assembled.
func WithPromptBuilder(build func(domain.Category, domain.Language) string) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithPromptBuilder(build))
	}
}

// WithLocker serializes catalog commits across processes.
func WithLocker(l ports.Locker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithLocker(l, ttl))
	}
}

// WithCallTimeout bounds every external call.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithCallTimeout(d))
	}
}

// WithEchoDrafts makes the engine display each draft before critique.
// Use it with non-interactive critics.
func WithEchoDrafts(echo bool) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithEchoDrafts(echo))
	}
}

// WithCatalogue restricts the selectable categories and languages.
func WithCatalogue(categories []domain.Category, languages []domain.Language) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithCatalogue(categories, languages))
	}
}

// New creates an Engine over svc.
func New(svc Services, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	rt, err := runtime.NewEngine(svc, eng.runtimeOpts...)
	if err != nil {
		return nil, err
	}
	eng.runtime = rt
	return eng, nil
}

// Start creates a fresh session at the menu. An empty sessionID gets a random one.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.runtime.Start(ctx, sessionID)
}

// Render returns the actions the host must perform for the current state.
func (e *Engine) Render(ctx context.Context, s *domain.Session) ([]domain.ActionRequest, bool, error) {
	return e.runtime.Render(ctx, s)
}

// Navigate performs one transition and returns the new session.
func (e *Engine) Navigate(ctx context.Context, s *domain.Session, input string) (*domain.Session, []domain.ActionRequest, error) {
	return e.runtime.Navigate(ctx, s, input)
}

// Policy returns the effective business rules.
func (e *Engine) Policy() Policy {
	return e.runtime.Policy()
}

var _ ports.StatelessEngine = (*Engine)(nil)

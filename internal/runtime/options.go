package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/ports"
)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithPolicy overrides the business rules. Zero fields keep their defaults.
func WithPolicy(p Policy) EngineOption {
	return func(e *Engine) {
		if p.MaxRetries > 0 {
			e.policy.MaxRetries = p.MaxRetries
		}
		if p.Threshold > 0 {
			e.policy.Threshold = p.Threshold
		}
		if p.Dimension > 0 {
			e.policy.Dimension = p.Dimension
		}
		if p.BrowseLimit > 0 {
			e.policy.BrowseLimit = p.BrowseLimit
		}
	}
}

// WithPromptBuilder sets how the writer prompt is assembled.
func WithPromptBuilder(b PromptBuilder) EngineOption {
	return func(e *Engine) {
		if b != nil {
			e.prompt = b
		}
	}
}

// WithLocker serializes commits across processes under the "catalog" key.
func WithLocker(l ports.Locker, ttl time.Duration) EngineOption {
	return func(e *Engine) {
		e.locker = l
		if ttl > 0 {
			e.lockTTL = ttl
		}
	}
}

// WithCallTimeout bounds every external call. Zero means no timeout.
func WithCallTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.callTimeout = d
	}
}

// WithEchoDrafts makes Generate emit the draft for display.
// Interactive critics show the draft themselves and leave this off.
func WithEchoDrafts(echo bool) EngineOption {
	return func(e *Engine) {
		e.echoDrafts = echo
	}
}

// WithClock sets the time source used to stamp jokes.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithCatalogue restricts the selectable categories and languages, in display order.
func WithCatalogue(categories []domain.Category, languages []domain.Language) EngineOption {
	return func(e *Engine) {
		if len(categories) > 0 {
			e.categories = categories
		}
		if len(languages) > 0 {
			e.languages = languages
		}
	}
}

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/ports"
)

// ErrInterrupted is returned when the session context is cancelled mid-run.
var ErrInterrupted = errors.New("interrupted")

// Runner handles the execution loop of the engine using the provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on stdin/stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Renderer is applied to content by the default text handler.
	Renderer ContentRenderer

	hooks   []TransitionHook
	signals bool
}

// NewRunner creates a Runner. Without options it talks to stdin/stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		signals: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives session until it quits and returns the last session reached.
//
// Quitting, retry exhaustion and EOF on input end the run without error.
// A cancelled context (Ctrl+C) yields ErrInterrupted; engine failures are
// returned wrapped, so errors.As still finds a *domain.ServiceError.
func (r *Runner) Run(ctx context.Context, engine ports.StatelessEngine, session *domain.Session) (*domain.Session, error) {
	if engine == nil {
		return nil, errors.New("runner: nil engine")
	}
	if session == nil {
		return nil, errors.New("runner: nil session")
	}

	handler := r.resolveHandler()

	var signals *signalScope
	if r.signals {
		signals = newSignalScope(ctx)
		defer signals.stop()
		ctx = signals.ctx
	}

	state := session
	for {
		actions, terminal, err := engine.Render(ctx, state)
		if err != nil {
			return state, fmt.Errorf("render error: %w", err)
		}
		if terminal {
			r.Logger.Debug("session ended", "session_id", state.ID, "state", state.Current)
			return state, nil
		}

		needsInput, err := handler.Output(ctx, actions)
		if err != nil {
			return state, fmt.Errorf("output error: %w", err)
		}

		input := ""
		if needsInput {
			input, err = handler.Input(ctx)
			if err != nil {
				return state, r.inputError(ctx, signals, state, err)
			}
		}

		next, status, err := engine.Navigate(ctx, state, input)
		if err != nil {
			return state, r.inputError(ctx, signals, state, err)
		}

		if _, err := handler.Output(ctx, status); err != nil {
			return next, fmt.Errorf("output error: %w", err)
		}

		for _, hook := range r.hooks {
			hook(ctx, state, next)
		}
		state = next
	}
}

// inputError classifies a failure that happened while waiting on the user or a service.
// EOF is a clean end, cancellation is an interrupt, anything else is fatal.
func (r *Runner) inputError(ctx context.Context, signals *signalScope, s *domain.Session, err error) error {
	if signals != nil {
		signals.settle()
	}
	if ctx.Err() != nil {
		r.Logger.Debug("run interrupted", "session_id", s.ID, "state", s.Current, "err", ctx.Err())
		return fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
	}
	if errors.Is(err, io.EOF) {
		r.Logger.Debug("input closed", "session_id", s.ID, "state", s.Current)
		return nil
	}
	return fmt.Errorf("%s: %w", s.Current, err)
}

// resolveHandler falls back to a text handler on stdin/stdout.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	r.Handler = NewTextHandler(os.Stdin, os.Stdout, WithTextHandlerRenderer(r.Renderer))
	return r.Handler
}

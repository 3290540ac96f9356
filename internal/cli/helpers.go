package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aretw0/punchline/internal/logging"
	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/runner"
)

const defaultHTTPTimeout = 30 * time.Second

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger from cfg.Log.
// Debug forces the debug level. The returned closer releases the log file.
func createLogger(level, file string, debug bool, stderr io.Writer) (*slog.Logger, func() error, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if debug {
		lvl = slog.LevelDebug
	}

	opts := logging.Options{Writer: stderr}
	closer := func() error { return nil }
	if file != "" {
		f, err := logging.OpenFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		opts.File = f
		closer = f.Close
	}
	return logging.New(lvl, opts), closer, nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(ctx context.Context, e *domain.StateEvent) {
			logger.Debug("Enter State", "session_id", e.SessionID, "state", e.State)
		},
		OnStateLeave: func(ctx context.Context, e *domain.StateEvent) {
			logger.Debug("Leave State", "session_id", e.SessionID, "state", e.State)
		},
		OnServiceCall: func(ctx context.Context, e *domain.ServiceEvent) {
			logger.Debug("Service Call", "service", e.Service, "op", e.Op)
		},
		OnServiceReturn: func(ctx context.Context, e *domain.ServiceEvent) {
			if e.IsError {
				logger.Debug("Service Return (Error)", "service", e.Service, "op", e.Op, "duration", e.Duration)
			} else {
				logger.Debug("Service Return (Success)", "service", e.Service, "op", e.Op, "duration", e.Duration)
			}
		},
		OnOutcome: func(ctx context.Context, e *domain.OutcomeEvent) {
			logger.Debug("Outcome", "outcome", e.Outcome, "category", e.Category, "language", e.Language, "score", e.Score)
		},
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, runner.ErrInterrupted) || errors.Is(err, context.Canceled)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil // Exit 0 for interruptions
	}
	return err
}

func logCompletion(w io.Writer, s *domain.Session, err error, sig os.Signal) {
	if err == nil {
		if s != nil {
			printSystemMessage(w, "Session %s ended with %d joke(s).", s.ID, len(s.Jokes))
		}
		return
	}
	if !isInterrupted(err) {
		return
	}
	if sig == os.Interrupt {
		fmt.Fprintf(w, "[CTRL+C]\n")
		printSystemMessage(w, "Interrupted.")
		return
	}
	fmt.Fprintln(w)
	printSystemMessage(w, "Terminated.")
}

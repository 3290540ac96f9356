package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// interruptGrace is how long a failed read waits for a Ctrl+C to land.
// A terminal can close stdin slightly before SIGINT is delivered.
const interruptGrace = 100 * time.Millisecond

// signalScope cancels a run on SIGINT or SIGTERM.
type signalScope struct {
	ctx  context.Context
	stop context.CancelFunc
}

func newSignalScope(parent context.Context) *signalScope {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	return &signalScope{ctx: ctx, stop: stop}
}

// settle blocks until the scope is cancelled or the grace period passes.
func (s *signalScope) settle() {
	if s.ctx.Err() != nil {
		return
	}
	t := time.NewTimer(interruptGrace)
	defer t.Stop()
	select {
	case <-s.ctx.Done():
	case <-t.C:
	}
}

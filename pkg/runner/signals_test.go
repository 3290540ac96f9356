package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalScope_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := newSignalScope(parent)
	defer s.stop()

	cancel()
	select {
	case <-s.ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("parent cancellation did not propagate")
	}
}

func TestSignalScope_Settle(t *testing.T) {
	s := newSignalScope(context.Background())
	defer s.stop()

	start := time.Now()
	s.settle()
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, interruptGrace)
	assert.Less(t, elapsed, time.Second)

	s.stop()
	start = time.Now()
	s.settle()
	assert.Less(t, time.Since(start), 50*time.Millisecond, "a cancelled scope returns immediately")
}

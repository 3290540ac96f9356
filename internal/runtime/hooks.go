package runtime

import (
	"context"
	"time"

	"github.com/aretw0/punchline/pkg/domain"
)

// Service names used in events and errors.
const (
	ServiceGenerator = "generator"
	ServiceCritic    = "critic"
	ServiceEmbedder  = "embedder"
	ServiceIndex     = "index"
	ServiceCatalog   = "catalog"
	ServiceLocker    = "locker"
)

// invoke runs one external call with the configured timeout, firing service
// hooks around it. Failures come back as *domain.ServiceError.
func invoke[T any](ctx context.Context, e *Engine, sessionID, service, op string, fn func(context.Context) (T, error)) (T, error) {
	e.emitService(ctx, e.hooks.OnServiceCall, domain.EventServiceCall, sessionID, service, op, 0, false)

	callCtx := ctx
	if e.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.callTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := fn(callCtx)
	elapsed := time.Since(start)

	e.emitService(ctx, e.hooks.OnServiceReturn, domain.EventServiceReturn, sessionID, service, op, elapsed, err != nil)
	e.logger.Debug("service call", "session_id", sessionID, "service", service, "op", op, "duration", elapsed, "failed", err != nil)

	if err != nil {
		var zero T
		return zero, &domain.ServiceError{Service: service, Op: op, Err: err}
	}
	return res, nil
}

func (e *Engine) base(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{Timestamp: e.now(), Type: t, SessionID: sessionID}
}

func (e *Engine) emitStateEnter(ctx context.Context, sessionID string, state domain.StateID) {
	if e.hooks.OnStateEnter != nil {
		e.hooks.OnStateEnter(ctx, &domain.StateEvent{EventBase: e.base(domain.EventStateEnter, sessionID), State: state})
	}
}

func (e *Engine) emitStateLeave(ctx context.Context, sessionID string, state domain.StateID) {
	if e.hooks.OnStateLeave != nil {
		e.hooks.OnStateLeave(ctx, &domain.StateEvent{EventBase: e.base(domain.EventStateLeave, sessionID), State: state})
	}
}

func (e *Engine) emitService(ctx context.Context, hook func(context.Context, *domain.ServiceEvent), t domain.EventType, sessionID, service, op string, d time.Duration, isErr bool) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.ServiceEvent{
		EventBase: e.base(t, sessionID),
		Service:   service,
		Op:        op,
		Duration:  d,
		IsError:   isErr,
	})
}

func (e *Engine) emitOutcome(ctx context.Context, s *domain.Session, outcome domain.Outcome, score float64) {
	e.logger.Debug("outcome", "session_id", s.ID, "outcome", outcome, "retry_count", s.RetryCount)
	if e.hooks.OnOutcome == nil {
		return
	}
	e.hooks.OnOutcome(ctx, &domain.OutcomeEvent{
		EventBase: e.base(domain.EventOutcome, s.ID),
		Outcome:   outcome,
		Category:  s.Category,
		Language:  s.Language,
		Score:     score,
	})
}

package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStateEnter    EventType = "state_enter"
	EventStateLeave    EventType = "state_leave"
	EventServiceCall   EventType = "service_call"
	EventServiceReturn EventType = "service_return"
	EventOutcome       EventType = "outcome"
)

// Outcome names a business result of the joke loop.
type Outcome string

const (
	OutcomeGenerated  Outcome = "generated"
	OutcomeApproved   Outcome = "approved"
	OutcomeRejected   Outcome = "rejected"
	OutcomeDuplicate  Outcome = "duplicate"
	OutcomeCommitted  Outcome = "committed"
	OutcomeSuppressed Outcome = "suppressed"
	OutcomeExhausted  Outcome = "exhausted"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// StateEvent represents entry or exit from a state.
type StateEvent struct {
	EventBase
	State StateID `json:"state"`
}

// ServiceEvent represents a call to an external collaborator.
type ServiceEvent struct {
	EventBase
	Service  string        `json:"service"`
	Op       string        `json:"op"`
	Duration time.Duration `json:"duration,omitempty"`
	IsError  bool          `json:"is_error,omitempty"`
}

// OutcomeEvent represents a business result (approval, duplicate, commit...).
type OutcomeEvent struct {
	EventBase
	Outcome  Outcome  `json:"outcome"`
	Category Category `json:"category"`
	Language Language `json:"language"`
	Score    float64  `json:"score,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStateEnter    func(context.Context, *StateEvent)
	OnStateLeave    func(context.Context, *StateEvent)
	OnServiceCall   func(context.Context, *ServiceEvent)
	OnServiceReturn func(context.Context, *ServiceEvent)
	OnOutcome       func(context.Context, *OutcomeEvent)
}

// Merge chains two hook sets; both callbacks run, receiver first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStateEnter:    chain(h.OnStateEnter, other.OnStateEnter),
		OnStateLeave:    chain(h.OnStateLeave, other.OnStateLeave),
		OnServiceCall:   chain(h.OnServiceCall, other.OnServiceCall),
		OnServiceReturn: chain(h.OnServiceReturn, other.OnServiceReturn),
		OnOutcome:       chain(h.OnOutcome, other.OnOutcome),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

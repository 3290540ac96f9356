package runner

import (
	"context"

	"github.com/aretw0/punchline/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents the actions to the user.
	// Returns true if one of the actions requests input.
	Output(ctx context.Context, actions []domain.ActionRequest) (bool, error)

	// Input reads a response from the user.
	// It returns io.EOF when the input stream is closed.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a status line (notices, outcomes), distinct from content.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms content before it is written (e.g. markdown to ANSI).
type ContentRenderer func(string) (string, error)

// TransitionHook observes every successful transition.
type TransitionHook func(ctx context.Context, before, after *domain.Session)

func requestedInput(actions []domain.ActionRequest) (domain.InputRequest, bool) {
	for _, act := range actions {
		if act.Type != domain.ActionRequestInput {
			continue
		}
		if req, ok := act.Payload.(domain.InputRequest); ok {
			return req, true
		}
		return domain.InputRequest{}, true
	}
	return domain.InputRequest{}, false
}

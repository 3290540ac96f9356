package ports

import (
	"context"

	"github.com/aretw0/punchline/pkg/domain"
)

// StatelessEngine is the state machine core as seen by hosts (runner, tests).
// It never keeps the session itself; callers pass it in and get a new one back.
type StatelessEngine interface {
	// Render calculates the presentation for a session without advancing it.
	// terminal is true once the session has quit.
	Render(ctx context.Context, session *domain.Session) (actions []domain.ActionRequest, terminal bool, err error)

	// Navigate performs one transition, returning the new session and the status actions produced.
	Navigate(ctx context.Context, session *domain.Session, input string) (*domain.Session, []domain.ActionRequest, error)
}

package runner

import (
	"context"
	"fmt"

	"github.com/aretw0/punchline/pkg/domain"
)

// HumanCriticHeader introduces the draft shown to the human critic.
const HumanCriticHeader = "--- Human Critic ---"

// HumanCriticPrompt is the question asked for every draft.
const HumanCriticPrompt = "Do you find this joke funny? (yes/no) "

// HumanCritic asks the person at the terminal to judge each draft.
// It shares the IOHandler with the Runner, so it must be driven from the
// runner's goroutine.
type HumanCritic struct {
	IO IOHandler
}

// NewHumanCritic creates a critic reading answers through io.
func NewHumanCritic(io IOHandler) *HumanCritic {
	return &HumanCritic{IO: io}
}

// Critique shows the joke and parses a yes/no answer.
// Anything else is reported as domain.VerdictInvalid.
func (c *HumanCritic) Critique(ctx context.Context, joke string) (domain.Verdict, error) {
	actions := []domain.ActionRequest{
		domain.Content(fmt.Sprintf("%s\nHere is the latest joke:\n\n%s", HumanCriticHeader, joke)),
		domain.AskFor(domain.InputRequest{Type: domain.InputConfirm, Prompt: HumanCriticPrompt}),
	}
	if _, err := c.IO.Output(ctx, actions); err != nil {
		return "", fmt.Errorf("show draft: %w", err)
	}

	answer, err := c.IO.Input(ctx)
	if err != nil {
		return "", fmt.Errorf("read verdict: %w", err)
	}
	return domain.ParseVerdict(answer), nil
}

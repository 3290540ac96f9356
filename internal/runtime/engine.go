// Package runtime implements the joke workflow state machine.
//
// The Engine is stateless: every call receives the session and returns a new
// one. Render describes what the host must show for the current state;
// Navigate performs exactly one transition.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/ports"
	"github.com/google/uuid"
)

// Services groups the collaborators the engine drives.
type Services struct {
	Generator ports.Generator
	Critic    ports.Critic
	Embedder  ports.Embedder
	Index     ports.SimilarityIndex
	Catalog   ports.Catalog
}

func (s Services) validate() error {
	var missing []error
	if s.Generator == nil {
		missing = append(missing, errors.New("generator"))
	}
	if s.Critic == nil {
		missing = append(missing, errors.New("critic"))
	}
	if s.Embedder == nil {
		missing = append(missing, errors.New("embedder"))
	}
	if s.Index == nil {
		missing = append(missing, errors.New("index"))
	}
	if s.Catalog == nil {
		missing = append(missing, errors.New("catalog"))
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing services: %w", errors.Join(missing...))
	}
	return nil
}

// Policy holds the numeric business rules.
type Policy struct {
	// MaxRetries is the number of consecutive rejections that ends the session.
	MaxRetries int
	// Threshold is the cosine similarity at or above which a joke is a duplicate.
	Threshold float64
	// Dimension is the embedding length, used for the zero-vector fallback.
	Dimension int
	// BrowseLimit is how many catalog entries Browse shows.
	BrowseLimit int
}

// DefaultPolicy returns the stock rules: 5 retries, 0.85 threshold, 1024 dims, 5 entries.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:  5,
		Threshold:   0.85,
		Dimension:   1024,
		BrowseLimit: 5,
	}
}

// Engine is the joke workflow state machine.
type Engine struct {
	svc         Services
	policy      Policy
	duplicates  DuplicatePolicy
	prompt      PromptBuilder
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	locker      ports.Locker
	lockTTL     time.Duration
	callTimeout time.Duration
	echoDrafts  bool
	now         func() time.Time
	categories  []domain.Category
	languages   []domain.Language
}

// NewEngine creates an engine over svc. Every service is required.
func NewEngine(svc Services, opts ...EngineOption) (*Engine, error) {
	if err := svc.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		svc:        svc,
		policy:     DefaultPolicy(),
		prompt:     DefaultPrompt,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		lockTTL:    30 * time.Second,
		now:        time.Now,
		categories: domain.Categories,
		languages:  domain.Languages,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.duplicates = DuplicatePolicy{Index: svc.Index, Threshold: e.policy.Threshold}
	return e, nil
}

// Policy returns the active rules.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Start creates a fresh session at the menu. An empty sessionID gets a random one.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	s := domain.NewSession(sessionID)
	if !slices.Contains(e.categories, s.Category) && len(e.categories) > 0 {
		s.Category = e.categories[0]
	}
	if !slices.Contains(e.languages, s.Language) && len(e.languages) > 0 {
		s.Language = e.languages[0]
	}

	e.logger.Debug("session started", "session_id", s.ID, "category", s.Category, "language", s.Language)
	e.emitStateEnter(ctx, s.ID, s.Current)
	return s, nil
}

// Render returns the actions the host must perform for the current state.
// Automatic states render nothing; terminal is true once the session quit.
func (e *Engine) Render(ctx context.Context, s *domain.Session) ([]domain.ActionRequest, bool, error) {
	if s == nil {
		return nil, false, errors.New("render: nil session")
	}
	if s.ShouldQuit {
		return nil, true, nil
	}

	switch s.Current {
	case domain.StateMenu:
		return []domain.ActionRequest{
			domain.Content(MenuText),
			domain.AskFor(domain.InputRequest{
				Type:    domain.InputChoice,
				Options: choiceOptions(),
			}),
		}, false, nil

	case domain.StateChangeCategory:
		return []domain.ActionRequest{
			domain.AskFor(domain.InputRequest{
				Type:   domain.InputText,
				Prompt: fmt.Sprintf("Select Category [%s]: ", domain.Legend(e.categories)),
			}),
		}, false, nil

	case domain.StateChangeLanguage:
		return []domain.ActionRequest{
			domain.AskFor(domain.InputRequest{
				Type:   domain.InputText,
				Prompt: fmt.Sprintf("Select Language [%s]: ", domain.Legend(e.languages)),
			}),
		}, false, nil
	}

	return nil, false, nil
}

// Navigate performs one transition from s. The input session is never mutated.
// Input is only meaningful in states that await it; automatic states ignore it.
// A *domain.ServiceError means a collaborator failed and the session cannot continue.
func (e *Engine) Navigate(ctx context.Context, s *domain.Session, input string) (*domain.Session, []domain.ActionRequest, error) {
	if s == nil {
		return nil, nil, errors.New("navigate: nil session")
	}
	if s.ShouldQuit {
		return nil, nil, domain.ErrSessionTerminated
	}

	next := s.Clone()
	var (
		actions []domain.ActionRequest
		target  domain.StateID
		err     error
	)

	switch s.Current {
	case domain.StateMenu:
		target = e.handleMenu(next, input)
	case domain.StateGenerate:
		actions, target, err = e.handleGenerate(ctx, next)
	case domain.StateCritique:
		actions, target, err = e.handleCritique(ctx, next)
	case domain.StateCommit:
		actions, target, err = e.handleCommit(ctx, next)
	case domain.StateChangeCategory:
		actions, target = e.handleChangeCategory(next, input)
	case domain.StateChangeLanguage:
		actions, target = e.handleChangeLanguage(next, input)
	case domain.StateResetHistory:
		actions, target = e.handleResetHistory(next)
	case domain.StateBrowse:
		actions, target, err = e.handleBrowse(ctx, next)
	case domain.StateExit:
		target = e.handleExit(next)
	default:
		return nil, nil, fmt.Errorf("navigate: unknown state %q", s.Current)
	}

	if err != nil {
		e.logger.Error("transition failed", "session_id", s.ID, "state", s.Current, "err", err)
		return nil, nil, err
	}

	e.transitionTo(ctx, next, target)
	return next, actions, nil
}

// transitionTo moves next to target, firing leave/enter hooks on a state change.
func (e *Engine) transitionTo(ctx context.Context, next *domain.Session, target domain.StateID) {
	if target == next.Current {
		return
	}
	e.logger.Debug("transition", "session_id", next.ID, "from", next.Current, "to", target)
	e.emitStateLeave(ctx, next.ID, next.Current)
	next.Current = target
	next.History = append(next.History, target)
	e.emitStateEnter(ctx, next.ID, target)
}

func choiceOptions() []string {
	opts := make([]string, len(domain.Choices))
	for i, c := range domain.Choices {
		opts[i] = string(c)
	}
	return opts
}

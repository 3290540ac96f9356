package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/ports"
)

// lockKey guards the duplicate re-check and the two writes of a commit.
const lockKey = "catalog"

func (e *Engine) handleMenu(next *domain.Session, input string) domain.StateID {
	choice := domain.ParseChoice(input)
	next.PendingChoice = choice
	return choice.Target()
}

func (e *Engine) handleGenerate(ctx context.Context, next *domain.Session) ([]domain.ActionRequest, domain.StateID, error) {
	prompt := e.prompt(next.Category, next.Language)

	text, err := invoke(ctx, e, next.ID, ServiceGenerator, "generate", func(ctx context.Context) (string, error) {
		return e.svc.Generator.Generate(ctx, prompt)
	})
	if err != nil {
		return nil, "", err
	}

	vec, err := e.embed(ctx, next.ID, text)
	if err != nil {
		return nil, "", err
	}

	next.DraftJokeText = text
	next.PendingEmbeddings = []domain.Vector{vec}
	next.IsApproved = false
	e.emitOutcome(ctx, next, domain.OutcomeGenerated, 0)

	var actions []domain.ActionRequest
	if e.echoDrafts {
		actions = append(actions, domain.Content("Here is the latest joke:\n\n"+text))
	}
	return actions, domain.StateCritique, nil
}

func (e *Engine) handleCritique(ctx context.Context, next *domain.Session) ([]domain.ActionRequest, domain.StateID, error) {
	verdict, err := invoke(ctx, e, next.ID, ServiceCritic, "critique", func(ctx context.Context) (domain.Verdict, error) {
		return e.svc.Critic.Critique(ctx, next.DraftJokeText)
	})
	if err != nil {
		return nil, "", err
	}

	var actions []domain.ActionRequest
	next.IsApproved = false

	switch verdict {
	case domain.VerdictApprove:
		// The draft is embedded again rather than reusing the generation vector.
		vec, err := e.embed(ctx, next.ID, next.DraftJokeText)
		if err != nil {
			return nil, "", err
		}
		check, err := e.checkDuplicate(ctx, next.ID, vec)
		if err != nil {
			return nil, "", err
		}
		if check.Duplicate {
			actions = append(actions,
				domain.Notice(fmt.Sprintf(MsgDuplicateFound, check.Text())),
				domain.Notice(MsgTooSimilar),
			)
			e.emitOutcome(ctx, next, domain.OutcomeDuplicate, check.Score())
			break
		}
		next.IsApproved = true
		next.PendingEmbeddings = []domain.Vector{vec}
		e.emitOutcome(ctx, next, domain.OutcomeApproved, check.Score())

	case domain.VerdictReject:
		e.emitOutcome(ctx, next, domain.OutcomeRejected, 0)

	default:
		actions = append(actions, domain.Notice(MsgInvalidVerdict))
		e.emitOutcome(ctx, next, domain.OutcomeRejected, 0)
	}

	if next.IsApproved {
		return actions, domain.StateCommit, nil
	}

	next.RetryCount++
	if next.RetryCount >= e.policy.MaxRetries {
		actions = append(actions,
			domain.Notice(fmt.Sprintf(MsgExhausted, e.policy.MaxRetries)),
			domain.Notice(MsgGoodbye),
		)
		e.emitOutcome(ctx, next, domain.OutcomeExhausted, 0)
		return actions, domain.StateExit, nil
	}
	return actions, domain.StateMenu, nil
}

func (e *Engine) handleCommit(ctx context.Context, next *domain.Session) ([]domain.ActionRequest, domain.StateID, error) {
	joke := domain.NewJoke(next.DraftJokeText, next.Category, next.Language, e.now())
	actions := []domain.ActionRequest{domain.Content(fmt.Sprintf(MsgApproved, joke.Text))}

	if next.IsApproved {
		persisted, err := e.persist(ctx, next, joke)
		if err != nil {
			return nil, "", err
		}
		actions = append(actions, persisted...)
	}

	next.Jokes = append(next.Jokes, joke)
	next.RetryCount = 0
	next.IsApproved = false
	next.DraftJokeText = ""
	return actions, domain.StateMenu, nil
}

// persist re-checks for duplicates and writes the joke to the index, then the catalog.
func (e *Engine) persist(ctx context.Context, s *domain.Session, joke domain.Joke) ([]domain.ActionRequest, error) {
	if e.locker != nil {
		unlock, err := invoke(ctx, e, s.ID, ServiceLocker, "lock", func(ctx context.Context) (ports.UnlockFunc, error) {
			return e.locker.Lock(ctx, lockKey, e.lockTTL)
		})
		if err != nil {
			return nil, err
		}
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if uerr := unlock(releaseCtx); uerr != nil {
				e.logger.Warn("failed to release commit lock", "session_id", s.ID, "err", uerr)
			}
		}()
	}

	vec, ok := s.LastEmbedding()
	if !ok {
		vec = domain.ZeroVector(e.policy.Dimension)
	}

	check, err := e.checkDuplicate(ctx, s.ID, vec)
	if err != nil {
		return nil, err
	}
	if check.Duplicate {
		e.emitOutcome(ctx, s, domain.OutcomeSuppressed, check.Score())
		return []domain.ActionRequest{domain.Notice(fmt.Sprintf(MsgDuplicateFound, check.Text()))}, nil
	}

	_, err = invoke(ctx, e, s.ID, ServiceIndex, "upsert", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, e.svc.Index.Upsert(ctx, joke.ID, vec, joke.Metadata())
	})
	if err != nil {
		return nil, err
	}

	_, err = invoke(ctx, e, s.ID, ServiceCatalog, "append", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, e.svc.Catalog.Append(ctx, joke)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("joke saved", "session_id", s.ID, "joke_id", joke.ID, "category", joke.Category)
	e.emitOutcome(ctx, s, domain.OutcomeCommitted, check.Score())
	return []domain.ActionRequest{domain.Notice(fmt.Sprintf(MsgSaved, joke.ID))}, nil
}

func (e *Engine) handleChangeCategory(next *domain.Session, input string) ([]domain.ActionRequest, domain.StateID) {
	idx, err := domain.SelectIndex("category", input, len(e.categories))
	if err != nil {
		return e.rejectSelection(next, err), next.Current
	}
	next.Category = e.categories[idx]
	return []domain.ActionRequest{domain.Notice(fmt.Sprintf(MsgCategoryChanged, next.Category))}, domain.StateMenu
}

func (e *Engine) handleChangeLanguage(next *domain.Session, input string) ([]domain.ActionRequest, domain.StateID) {
	idx, err := domain.SelectIndex("language", input, len(e.languages))
	if err != nil {
		return e.rejectSelection(next, err), next.Current
	}
	next.Language = e.languages[idx]
	return []domain.ActionRequest{domain.Notice(fmt.Sprintf(MsgLanguageChanged, next.Language))}, domain.StateMenu
}

// rejectSelection keeps the session where it is so the prompt is shown again.
func (e *Engine) rejectSelection(next *domain.Session, err error) []domain.ActionRequest {
	reason := err.Error()
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		reason = fmt.Sprintf("%q (%s)", verr.Input, verr.Reason)
	}
	e.logger.Warn("invalid selection", "session_id", next.ID, "state", next.Current, "err", err)
	return []domain.ActionRequest{domain.Notice(fmt.Sprintf(MsgInvalidSelect, reason))}
}

func (e *Engine) handleResetHistory(next *domain.Session) ([]domain.ActionRequest, domain.StateID) {
	next.Jokes = []domain.Joke{}
	return []domain.ActionRequest{domain.Notice(MsgHistoryReset)}, domain.StateMenu
}

func (e *Engine) handleBrowse(ctx context.Context, next *domain.Session) ([]domain.ActionRequest, domain.StateID, error) {
	jokes, err := invoke(ctx, e, next.ID, ServiceCatalog, "recent", func(ctx context.Context) ([]domain.Joke, error) {
		return e.svc.Catalog.Recent(ctx, e.policy.BrowseLimit)
	})
	if err != nil {
		return nil, "", err
	}

	if len(jokes) == 0 {
		return []domain.ActionRequest{domain.Notice(MsgNoJokes)}, domain.StateMenu, nil
	}
	return []domain.ActionRequest{domain.Content(FormatJokes(jokes))}, domain.StateMenu, nil
}

func (e *Engine) handleExit(next *domain.Session) domain.StateID {
	next.ShouldQuit = true
	e.logger.Debug("session finished", "session_id", next.ID, "jokes", len(next.Jokes))
	return domain.StateExit
}

func (e *Engine) embed(ctx context.Context, sessionID, text string) (domain.Vector, error) {
	return invoke(ctx, e, sessionID, ServiceEmbedder, "embed", func(ctx context.Context) (domain.Vector, error) {
		return e.svc.Embedder.Embed(ctx, text)
	})
}

func (e *Engine) checkDuplicate(ctx context.Context, sessionID string, vec domain.Vector) (DuplicateCheck, error) {
	return invoke(ctx, e, sessionID, ServiceIndex, "query", func(ctx context.Context) (DuplicateCheck, error) {
		return e.duplicates.Check(ctx, vec)
	})
}

// FormatJokes renders a saved-jokes listing, one "- text (category, timestamp)" line each.
func FormatJokes(jokes []domain.Joke) string {
	var b strings.Builder
	b.WriteString(MsgSavedHeader)
	for _, j := range jokes {
		fmt.Fprintf(&b, "\n- %s (%s, %s)", j.Text, j.Category, j.Timestamp.Format(time.RFC3339))
	}
	return b.String()
}

package runtime_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/punchline/internal/runtime"
	"github.com/aretw0/punchline/internal/testutils"
	"github.com/aretw0/punchline/pkg/adapters/memory"
	"github.com/aretw0/punchline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

type harness struct {
	gen      *testutils.ScriptedGenerator
	critic   *testutils.ScriptedCritic
	embedder *testutils.MapEmbedder
	index    *memory.Index
	catalog  *memory.Catalog
}

func newHarness(jokes []string, verdicts ...domain.Verdict) *harness {
	return &harness{
		gen:    testutils.NewScriptedGenerator(jokes...),
		critic: testutils.NewScriptedCritic(verdicts...),
		embedder: &testutils.MapEmbedder{
			Vectors:  map[string]domain.Vector{},
			Fallback: memory.NewHashEmbedder(3),
		},
		index:   memory.NewIndex(),
		catalog: memory.NewCatalog(),
	}
}

func (h *harness) services() runtime.Services {
	return runtime.Services{
		Generator: h.gen,
		Critic:    h.critic,
		Embedder:  h.embedder,
		Index:     h.index,
		Catalog:   h.catalog,
	}
}

func (h *harness) engine(t *testing.T, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	opts = append([]runtime.EngineOption{
		runtime.WithClock(func() time.Time { return fixedNow }),
		runtime.WithPolicy(runtime.Policy{Dimension: 3}),
	}, opts...)
	e, err := runtime.NewEngine(h.services(), opts...)
	require.NoError(t, err)
	return e
}

// step navigates once and fails the test on error.
func step(t *testing.T, e *runtime.Engine, s *domain.Session, input string) (*domain.Session, []domain.ActionRequest) {
	t.Helper()
	next, actions, err := e.Navigate(context.Background(), s, input)
	require.NoError(t, err, "navigate from %s", s.Current)
	return next, actions
}

// cycle runs menu "n" through generate and critique, plus commit when approved.
func cycle(t *testing.T, e *runtime.Engine, s *domain.Session) (*domain.Session, []domain.ActionRequest) {
	t.Helper()
	var all []domain.ActionRequest
	s, _ = step(t, e, s, "n")
	for s.Current == domain.StateGenerate || s.Current == domain.StateCritique || s.Current == domain.StateCommit {
		var actions []domain.ActionRequest
		s, actions = step(t, e, s, "")
		all = append(all, actions...)
	}
	return s, all
}

func payloads(actions []domain.ActionRequest) []string {
	var out []string
	for _, a := range actions {
		if text, ok := a.Payload.(string); ok {
			out = append(out, text)
		}
	}
	return out
}

func TestNewEngine_RequiresServices(t *testing.T) {
	_, err := runtime.NewEngine(runtime.Services{})
	require.Error(t, err)
	for _, name := range []string{"generator", "critic", "embedder", "index", "catalog"} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestEngine_Start(t *testing.T) {
	h := newHarness(nil)
	e := h.engine(t)

	s, err := e.Start(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID, "an empty id should be replaced")
	assert.Equal(t, domain.StateMenu, s.Current)
	assert.Equal(t, domain.CategoryGeneral, s.Category)
	assert.Equal(t, domain.LanguageEnglish, s.Language)

	s, err = e.Start(context.Background(), "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", s.ID)
}

func TestEngine_Start_RestrictedCatalogue(t *testing.T) {
	h := newHarness(nil)
	e := h.engine(t, runtime.WithCatalogue([]domain.Category{domain.CategoryDadDeveloper}, []domain.Language{"fr", "de"}))

	s, err := e.Start(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryDadDeveloper, s.Category)
	assert.Equal(t, domain.Language("fr"), s.Language)
}

func TestEngine_Render(t *testing.T) {
	h := newHarness(nil)
	e := h.engine(t)
	ctx := context.Background()
	s, _ := e.Start(ctx, "s1")

	t.Run("Menu", func(t *testing.T) {
		actions, terminal, err := e.Render(ctx, s)
		require.NoError(t, err)
		assert.False(t, terminal)
		require.Len(t, actions, 2)
		assert.Equal(t, domain.ActionRenderContent, actions[0].Type)
		assert.Equal(t, runtime.MenuText, actions[0].Payload)
		req, ok := actions[1].Payload.(domain.InputRequest)
		require.True(t, ok)
		assert.Equal(t, domain.InputChoice, req.Type)
		assert.Equal(t, []string{"n", "c", "l", "r", "b", "q"}, req.Options)
	})

	t.Run("Category Prompt", func(t *testing.T) {
		next, _ := step(t, e, s, "c")
		actions, _, err := e.Render(ctx, next)
		require.NoError(t, err)
		require.Len(t, actions, 1)
		req := actions[0].Payload.(domain.InputRequest)
		assert.Equal(t, "Select Category [0=dad developer, 1=chuck norris developer, 2=general]: ", req.Prompt)
	})

	t.Run("Language Prompt", func(t *testing.T) {
		next, _ := step(t, e, s, "l")
		actions, _, err := e.Render(ctx, next)
		require.NoError(t, err)
		req := actions[0].Payload.(domain.InputRequest)
		assert.True(t, strings.HasPrefix(req.Prompt, "Select Language [0=cs, 1=de, 2=en"), req.Prompt)
		assert.Contains(t, req.Prompt, "12=sv]")
	})

	t.Run("Automatic State", func(t *testing.T) {
		next, _ := step(t, e, s, "b")
		actions, terminal, err := e.Render(ctx, next)
		require.NoError(t, err)
		assert.False(t, terminal)
		assert.Empty(t, actions)
	})

	t.Run("Nil Session", func(t *testing.T) {
		_, _, err := e.Render(ctx, nil)
		assert.Error(t, err)
	})
}

func TestEngine_MenuDispatch(t *testing.T) {
	h := newHarness(nil)
	e := h.engine(t)
	s, _ := e.Start(context.Background(), "s1")

	tests := []struct {
		input string
		want  domain.StateID
	}{
		{"n", domain.StateGenerate},
		{"C", domain.StateChangeCategory},
		{" l ", domain.StateChangeLanguage},
		{"r", domain.StateResetHistory},
		{"b", domain.StateBrowse},
		{"q", domain.StateExit},
		{"whatever", domain.StateExit},
		{"", domain.StateExit},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("input %q", tt.input), func(t *testing.T) {
			next, actions := step(t, e, s, tt.input)
			assert.Equal(t, tt.want, next.Current)
			assert.Empty(t, actions)
		})
	}
}

func TestEngine_ApproveAndCommit(t *testing.T) {
	h := newHarness([]string{"Why do programmers prefer dark mode? Because light attracts bugs."}, domain.VerdictApprove)
	e := h.engine(t)
	s, _ := e.Start(context.Background(), "s1")

	s, actions := cycle(t, e, s)

	assert.Equal(t, domain.StateMenu, s.Current)
	require.Len(t, s.Jokes, 1)
	joke := s.Jokes[0]
	assert.Equal(t, "Why do programmers prefer dark mode? Because light attracts bugs.", joke.Text)
	assert.Equal(t, domain.CategoryGeneral, joke.Category)
	assert.Equal(t, domain.LanguageEnglish, joke.Language)
	assert.True(t, fixedNow.Equal(joke.Timestamp))

	assert.Zero(t, s.RetryCount)
	assert.False(t, s.IsApproved)
	assert.Empty(t, s.DraftJokeText)

	assert.Equal(t, 1, h.catalog.Len(), "joke should be appended to the catalog")
	assert.Equal(t, 1, h.index.Len(), "joke should be upserted into the index")

	texts := payloads(actions)
	assert.Contains(t, texts, "Approved Joke: "+joke.Text)
	assert.Contains(t, texts, fmt.Sprintf("Joke saved (ID: %s)", joke.ID))

	assert.Equal(t, []domain.StateID{
		domain.StateMenu, domain.StateGenerate, domain.StateCritique, domain.StateCommit, domain.StateMenu,
	}, s.History)
}

func TestEngine_PromptUsesSessionSettings(t *testing.T) {
	h := newHarness([]string{"Une blague."}, domain.VerdictReject)
	e := h.engine(t)
	s, _ := e.Start(context.Background(), "s1")

	s, _ = step(t, e, s, "l")
	s, _ = step(t, e, s, "5")
	require.Equal(t, domain.Language("fr"), s.Language)
	s, _ = step(t, e, s, "c")
	s, _ = step(t, e, s, "0")
	require.Equal(t, domain.CategoryDadDeveloper, s.Category)

	cycle(t, e, s)
	require.Len(t, h.gen.Prompts, 1)
	assert.Contains(t, h.gen.Prompts[0], "The language is: fr")
	assert.Contains(t, h.gen.Prompts[0], "The category is: dad developer")
}

func TestEngine_CustomPromptBuilder(t *testing.T) {
	h := newHarness([]string{"joke"}, domain.VerdictReject)
	e := h.engine(t, runtime.WithPromptBuilder(func(c domain.Category, l domain.Language) string {
		return string(c) + "|" + string(l)
	}))
	s, _ := e.Start(context.Background(), "s1")

	cycle(t, e, s)
	assert.Equal(t, []string{"general|en"}, h.gen.Prompts)
}

func TestEngine_Rejection(t *testing.T) {
	h := newHarness([]string{"meh"}, domain.VerdictReject)
	e := h.engine(t)
	s, _ := e.Start(context.Background(), "s1")

	s, actions := cycle(t, e, s)
	assert.Equal(t, domain.StateMenu, s.Current)
	assert.Equal(t, 1, s.RetryCount)
	assert.False(t, s.IsApproved)
	assert.Empty(t, s.Jokes)
	assert.Empty(t, actions)
	assert.Zero(t, h.catalog.Len())
}

func TestEngine_InvalidVerdictCountsAsRejection(t *testing.T) {
	h := newHarness([]string{"meh"}, domain.VerdictInvalid)
	e := h.engine(t)
	s, _ := e.Start(context.Background(), "s1")

	s, actions := cycle(t, e, s)
	assert.Equal(t, domain.StateMenu, s.Current)
	assert.Equal(t, 1, s.RetryCount)
	assert.Equal(t, []string{runtime.MsgInvalidVerdict}, payloads(actions))
}

func TestEngine_RetriesExhausted(t *testing.T) {
	jokes := []string{"one", "two", "three", "four", "five"}
	verdicts := []domain.Verdict{
		domain.VerdictReject, domain.VerdictReject, domain.VerdictInvalid, domain.VerdictReject, domain.VerdictReject,
	}
	h := newHarness(jokes, verdicts...)
	e := h.engine(t)
	ctx := context.Background()
	s, _ := e.Start(ctx, "s1")

	var actions []domain.ActionRequest
	for i := 0; i < 4; i++ {
		s, _ = cycle(t, e, s)
		require.Equal(t, domain.StateMenu, s.Current, "attempt %d should return to the menu", i+1)
		require.Equal(t, i+1, s.RetryCount)
	}

	s, actions = cycle(t, e, s)
	assert.Equal(t, domain.StateExit, s.Current)
	assert.Equal(t, 5, s.RetryCount)
	texts := payloads(actions)
	assert.Contains(t, texts, "No joke was approved after 5 attempts.")
	assert.Contains(t, texts, runtime.MsgGoodbye)

	s, _ = step(t, e, s, "")
	assert.True(t, s.ShouldQuit)

	_, terminal, err := e.Render(ctx, s)
	require.NoError(t, err)
	assert.True(t, terminal)

	_, _, err = e.Navigate(ctx, s, "n")
	assert.ErrorIs(t, err, domain.ErrSessionTerminated)
}

func TestEngine_CommitResetsRetryCount(t *testing.T) {
	h := newHarness([]string{"bad", "good"}, domain.VerdictReject, domain.VerdictApprove)
	h.embedder.Vectors["bad"] = domain.Vector{0, 1, 0}
	h.embedder.Vectors["good"] = domain.Vector{1, 0, 0}
	e := h.engine(t)
	s, _ := e.Start(context.Background(), "s1")

	s, _ = cycle(t, e, s)
	require.Equal(t, 1, s.RetryCount)

	s, _ = cycle(t, e, s)
	assert.Zero(t, s.RetryCount)
	assert.Len(t, s.Jokes, 1)
}

func TestEngine_CustomMaxRetries(t *testing.T) {
	h := newHarness([]string{"one", "two"}, domain.VerdictReject, domain.VerdictReject)
	e := h.engine(t, runtime.WithPolicy(runtime.Policy{MaxRetries: 2}))
	s, _ := e.Start(context.Background(), "s1")

	s, _ = cycle(t, e, s)
	require.Equal(t, domain.StateMenu, s.Current)
	s, _ = cycle(t, e, s)
	assert.Equal(t, domain.StateExit, s.Current)
}

func TestEngine_EchoDrafts(t *testing.T) {
	h := newHarness([]string{"draft joke"}, domain.VerdictReject)
	e := h.engine(t, runtime.WithEchoDrafts(true))
	s, _ := e.Start(context.Background(), "s1")

	s, _ = step(t, e, s, "n")
	s, actions := step(t, e, s, "")
	require.Equal(t, domain.StateCritique, s.Current)
	require.Len(t, actions, 1)
	assert.Contains(t, actions[0].Payload, "draft joke")
	assert.Equal(t, "draft joke", s.DraftJokeText)
	assert.Len(t, s.PendingEmbeddings, 1)
}

func TestEngine_ChangeCategory(t *testing.T) {
	h := newHarness(nil)
	e := h.engine(t)
	s, _ := e.Start(context.Background(), "s1")
	s, _ = step(t, e, s, "c")

	t.Run("Valid", func(t *testing.T) {
		next, actions := step(t, e, s, "1")
		assert.Equal(t, domain.StateMenu, next.Current)
		assert.Equal(t, domain.CategoryChuckNorrisDeveloper, next.Category)
		assert.Equal(t, []string{"Category set to chuck norris developer"}, payloads(actions))
	})

	for _, input := range []string{"3", "-1", "abc", ""} {
		t.Run("Invalid "+input, func(t *testing.T) {
			next, actions := step(t, e, s, input)
			assert.Equal(t, domain.StateChangeCategory, next.Current, "invalid input should re-prompt")
			assert.Equal(t, domain.CategoryGeneral, next.Category)
			require.Len(t, actions, 1)
			assert.Equal(t, domain.ActionSystemMessage, actions[0].Type)
			assert.Contains(t, actions[0].Payload, "Invalid selection")
		})
	}
}

func TestEngine_ChangeLanguage(t *testing.T) {
	h := newHarness(nil)
	e := h.engine(t)
	s, _ := e.Start(context.Background(), "s1")
	s, _ = step(t, e, s, "l")

	next, _ := step(t, e, s, "12")
	assert.Equal(t, domain.Language("sv"), next.Language)
	assert.Equal(t, domain.StateMenu, next.Current)

	next, actions := step(t, e, s, "13")
	assert.Equal(t, domain.StateChangeLanguage, next.Current)
	assert.Equal(t, domain.LanguageEnglish, next.Language)
	assert.Len(t, actions, 1)
}

func TestEngine_ResetHistory(t *testing.T) {
	h := newHarness([]string{"keep me"}, domain.VerdictApprove)
	e := h.engine(t)
	s, _ := e.Start(context.Background(), "s1")

	s, _ = cycle(t, e, s)
	require.Len(t, s.Jokes, 1)

	s, _ = step(t, e, s, "r")
	s, actions := step(t, e, s, "")
	assert.Equal(t, domain.StateMenu, s.Current)
	assert.Empty(t, s.Jokes)
	assert.NotNil(t, s.Jokes)
	assert.Equal(t, []string{runtime.MsgHistoryReset}, payloads(actions))
	assert.Equal(t, 1, h.catalog.Len(), "reset must not touch the catalog")
}

func TestEngine_ResetHistoryKeepsSettingsAndRetries(t *testing.T) {
	h := newHarness([]string{"one", "two"}, domain.VerdictReject, domain.VerdictReject)
	e := h.engine(t)
	s, _ := e.Start(context.Background(), "s1")

	s, _ = cycle(t, e, s)
	s, _ = cycle(t, e, s)
	require.Equal(t, 2, s.RetryCount)

	s, _ = step(t, e, s, "c")
	s, _ = step(t, e, s, "0")
	s, _ = step(t, e, s, "l")
	s, _ = step(t, e, s, "5")
	require.Equal(t, domain.CategoryDadDeveloper, s.Category)
	require.Equal(t, domain.Language("fr"), s.Language)

	s, _ = step(t, e, s, "r")
	s, _ = step(t, e, s, "")
	assert.Equal(t, domain.StateMenu, s.Current)
	assert.Empty(t, s.Jokes)
	assert.Equal(t, 2, s.RetryCount)
	assert.Equal(t, domain.CategoryDadDeveloper, s.Category)
	assert.Equal(t, domain.Language("fr"), s.Language)
}

func TestEngine_Browse(t *testing.T) {
	t.Run("Empty Catalog", func(t *testing.T) {
		h := newHarness(nil)
		e := h.engine(t)
		s, _ := e.Start(context.Background(), "s1")

		s, _ = step(t, e, s, "b")
		s, actions := step(t, e, s, "")
		assert.Equal(t, domain.StateMenu, s.Current)
		assert.Equal(t, []string{runtime.MsgNoJokes}, payloads(actions))
	})

	t.Run("Recent Jokes", func(t *testing.T) {
		h := newHarness(nil)
		for i := 0; i < 7; i++ {
			require.NoError(t, h.catalog.Append(context.Background(), domain.Joke{
				ID:        fmt.Sprintf("j%d", i),
				Text:      fmt.Sprintf("joke %d", i),
				Category:  domain.CategoryGeneral,
				Timestamp: fixedNow.Add(time.Duration(i) * time.Hour),
			}))
		}
		e := h.engine(t)
		s, _ := e.Start(context.Background(), "s1")

		s, _ = step(t, e, s, "b")
		_, actions := step(t, e, s, "")
		require.Len(t, actions, 1)
		assert.Equal(t, domain.ActionRenderContent, actions[0].Type)

		lines := strings.Split(actions[0].Payload.(string), "\n")
		require.Len(t, lines, 6, "header plus the five most recent jokes")
		assert.Equal(t, runtime.MsgSavedHeader, lines[0])
		assert.Equal(t, "- joke 2 (general, 2025-06-01T11:30:00Z)", lines[1])
		assert.Equal(t, "- joke 6 (general, 2025-06-01T15:30:00Z)", lines[5])
	})
}

func TestEngine_NavigateDoesNotMutateInput(t *testing.T) {
	h := newHarness([]string{"a joke"}, domain.VerdictApprove)
	e := h.engine(t)
	s, _ := e.Start(context.Background(), "s1")

	s, _ = step(t, e, s, "n")
	snapshot := s.Clone()

	next, _ := step(t, e, s, "")
	assert.Equal(t, snapshot, s, "the input session must be left untouched")
	assert.NotEqual(t, s.Current, next.Current)

	afterCritique, _ := step(t, e, next, "")
	snapshot = afterCritique.Clone()
	_, _ = step(t, e, afterCritique, "")
	assert.Equal(t, snapshot, afterCritique)
}

func TestEngine_UnknownState(t *testing.T) {
	h := newHarness(nil)
	e := h.engine(t)
	s, _ := e.Start(context.Background(), "s1")
	s.Current = "nowhere"

	_, _, err := e.Navigate(context.Background(), s, "")
	assert.Error(t, err)

	_, _, err = e.Navigate(context.Background(), nil, "")
	assert.Error(t, err)
}

func TestEngine_ExitFromMenu(t *testing.T) {
	h := newHarness(nil)
	e := h.engine(t)
	s, _ := e.Start(context.Background(), "s1")

	s, _ = step(t, e, s, "q")
	require.Equal(t, domain.StateExit, s.Current)
	require.False(t, s.ShouldQuit)

	s, _ = step(t, e, s, "")
	assert.True(t, s.ShouldQuit)
	assert.Equal(t, domain.StateExit, s.Current)
}

func TestFormatJokes(t *testing.T) {
	out := runtime.FormatJokes([]domain.Joke{
		{Text: "a", Category: domain.CategoryDadDeveloper, Timestamp: fixedNow},
	})
	assert.Equal(t, "--- Saved Jokes ---\n- a (dad developer, 2025-06-01T09:30:00Z)", out)
}

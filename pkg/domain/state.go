package domain

// Session is the state of one interactive run.
// The workflow engine owns it from process start to quit.
type Session struct {
	// ID identifies the run in logs and metrics.
	ID string `json:"id"`

	// Current is the active state of the machine.
	Current StateID `json:"current"`

	// Jokes holds the jokes accepted during this run, in order.
	Jokes []Joke `json:"jokes"`

	// PendingChoice is the last option picked from the menu.
	PendingChoice Choice `json:"pending_choice"`

	// PendingEmbeddings holds the vectors of the latest generation/critique round.
	PendingEmbeddings []Vector `json:"pending_embeddings"`

	Category Category `json:"category"`
	Language Language `json:"language"`

	// DraftJokeText is the generated joke awaiting commit. Empty when none.
	DraftJokeText string `json:"draft_joke_text"`

	// IsApproved is true only between critic approval and commit.
	IsApproved bool `json:"is_approved"`

	// RetryCount counts consecutive rejections since the last commit.
	RetryCount int `json:"retry_count"`

	ShouldQuit bool `json:"should_quit"`

	// History tracks the path taken.
	History []StateID `json:"history"`
}

// NewSession creates a freshly defaulted session sitting at the menu.
func NewSession(id string) *Session {
	return &Session{
		ID:                id,
		Current:           StateMenu,
		Jokes:             []Joke{},
		PendingChoice:     ChoiceNext,
		PendingEmbeddings: []Vector{},
		Category:          DefaultCategory,
		Language:          DefaultLanguage,
		History:           []StateID{StateMenu},
	}
}

// Clone returns a copy whose slices can be mutated without touching the original.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.Jokes = append([]Joke{}, s.Jokes...)
	next.PendingEmbeddings = make([]Vector, len(s.PendingEmbeddings))
	for i, v := range s.PendingEmbeddings {
		next.PendingEmbeddings[i] = append(Vector{}, v...)
	}
	next.History = append([]StateID{}, s.History...)
	return &next
}

// LastEmbedding returns the most recent pending vector, if any.
func (s *Session) LastEmbedding() (Vector, bool) {
	if len(s.PendingEmbeddings) == 0 {
		return nil, false
	}
	return s.PendingEmbeddings[len(s.PendingEmbeddings)-1], true
}

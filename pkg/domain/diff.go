package domain

// SessionDiff represents the changes between two sessions.
// It is designed to be serialized to JSON for debug logs.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Current    *StateID  `json:"current,omitempty"`
	Category   *Category `json:"category,omitempty"`
	Language   *Language `json:"language,omitempty"`
	RetryCount *int      `json:"retry_count,omitempty"`
	IsApproved *bool     `json:"is_approved,omitempty"`
	ShouldQuit *bool     `json:"should_quit,omitempty"`
	Draft      *string   `json:"draft,omitempty"`

	// JokesAppended contains jokes added since the old session.
	JokesAppended []Joke `json:"jokes_appended,omitempty"`

	// JokesReset is set when the joke history shrank (ResetHistory).
	JokesReset bool `json:"jokes_reset,omitempty"`
}

// Diff calculates the difference between oldSession and newSession.
// If oldSession is nil, it returns a diff representing the entire newSession.
// It returns nil when nothing changed.
func Diff(oldSession, newSession *Session) *SessionDiff {
	if newSession == nil {
		return nil
	}

	diff := &SessionDiff{SessionID: newSession.ID}
	if oldSession == nil {
		oldSession = &Session{}
	}

	if oldSession.Current != newSession.Current {
		diff.Current = &newSession.Current
	}
	if oldSession.Category != newSession.Category {
		diff.Category = &newSession.Category
	}
	if oldSession.Language != newSession.Language {
		diff.Language = &newSession.Language
	}
	if oldSession.RetryCount != newSession.RetryCount {
		diff.RetryCount = &newSession.RetryCount
	}
	if oldSession.IsApproved != newSession.IsApproved {
		diff.IsApproved = &newSession.IsApproved
	}
	if oldSession.ShouldQuit != newSession.ShouldQuit {
		diff.ShouldQuit = &newSession.ShouldQuit
	}
	if oldSession.DraftJokeText != newSession.DraftJokeText {
		diff.Draft = &newSession.DraftJokeText
	}

	// Jokes are append-only except for a reset.
	oldLen, newLen := len(oldSession.Jokes), len(newSession.Jokes)
	switch {
	case newLen > oldLen:
		diff.JokesAppended = newSession.Jokes[oldLen:]
	case newLen < oldLen:
		diff.JokesReset = true
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.Current == nil &&
		d.Category == nil &&
		d.Language == nil &&
		d.RetryCount == nil &&
		d.IsApproved == nil &&
		d.ShouldQuit == nil &&
		d.Draft == nil &&
		len(d.JokesAppended) == 0 &&
		!d.JokesReset
}

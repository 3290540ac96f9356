package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	joke := Joke{ID: "j1", Text: "knock knock", Category: CategoryGeneral, Timestamp: time.Unix(0, 0).UTC()}

	tests := []struct {
		name  string
		old   *Session
		new   *Session
		check func(t *testing.T, d *SessionDiff)
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  NewSession("sess-1"),
			check: func(t *testing.T, d *SessionDiff) {
				require.NotNil(t, d)
				require.NotNil(t, d.Current)
				assert.Equal(t, StateMenu, *d.Current)
				assert.Equal(t, CategoryGeneral, *d.Category)
			},
		},
		{
			name: "No Changes",
			old:  NewSession("sess-1"),
			new:  NewSession("sess-1"),
			check: func(t *testing.T, d *SessionDiff) {
				assert.Nil(t, d)
			},
		},
		{
			name: "Retry Increment",
			old:  NewSession("sess-1"),
			new: func() *Session {
				s := NewSession("sess-1")
				s.RetryCount = 1
				return s
			}(),
			check: func(t *testing.T, d *SessionDiff) {
				require.NotNil(t, d)
				assert.Equal(t, 1, *d.RetryCount)
				assert.Nil(t, d.Current)
			},
		},
		{
			name: "Joke Appended",
			old:  NewSession("sess-1"),
			new: func() *Session {
				s := NewSession("sess-1")
				s.Jokes = append(s.Jokes, joke)
				return s
			}(),
			check: func(t *testing.T, d *SessionDiff) {
				require.NotNil(t, d)
				assert.Equal(t, []Joke{joke}, d.JokesAppended)
				assert.False(t, d.JokesReset)
			},
		},
		{
			name: "History Reset",
			old: func() *Session {
				s := NewSession("sess-1")
				s.Jokes = append(s.Jokes, joke)
				return s
			}(),
			new: NewSession("sess-1"),
			check: func(t *testing.T, d *SessionDiff) {
				require.NotNil(t, d)
				assert.True(t, d.JokesReset)
				assert.Empty(t, d.JokesAppended)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Diff(tt.old, tt.new))
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	old := NewSession("sess-1")
	next := old.Clone()
	next.ShouldQuit = true

	diff := Diff(old, next)
	require.NotNil(t, diff)

	bytes, err := json.Marshal(diff)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(bytes), `"should_quit":true`), string(bytes))
	assert.False(t, strings.Contains(string(bytes), `"category"`), "unchanged fields must be omitted")
}

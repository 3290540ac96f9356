package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Joke is an accepted joke. It is created only at commit time and never mutated.
type Joke struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Category  Category  `json:"category"`
	Language  Language  `json:"language,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewJoke stamps a new joke with a random UUID and the given time.
func NewJoke(text string, category Category, language Language, now time.Time) Joke {
	return Joke{
		ID:        uuid.NewString(),
		Text:      text,
		Category:  category,
		Language:  language,
		Timestamp: now,
	}
}

// Metadata keys stored next to a joke vector in a similarity index.
const (
	MetaText      = "text"
	MetaCategory  = "category"
	MetaLanguage  = "language"
	MetaTimestamp = "timestamp"
)

// Metadata flattens the joke into index metadata.
func (j Joke) Metadata() map[string]string {
	return map[string]string{
		MetaText:      j.Text,
		MetaCategory:  string(j.Category),
		MetaLanguage:  string(j.Language),
		MetaTimestamp: j.Timestamp.Format(time.RFC3339),
	}
}

// legacyTimestamp is the zone-less ISO 8601 layout found in older catalogs.
const legacyTimestamp = "2006-01-02T15:04:05.999999999"

// UnmarshalJSON accepts RFC 3339 timestamps as well as zone-less ISO 8601
// ones, which are read in local time.
func (j *Joke) UnmarshalJSON(data []byte) error {
	type alias Joke
	var raw struct {
		alias
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*j = Joke(raw.alias)
	if raw.Timestamp == "" {
		return nil
	}

	ts, err := time.Parse(time.RFC3339Nano, raw.Timestamp)
	if err != nil {
		ts, err = time.ParseInLocation(legacyTimestamp, raw.Timestamp, time.Local)
		if err != nil {
			return fmt.Errorf("joke %s: invalid timestamp %q", raw.ID, raw.Timestamp)
		}
	}
	j.Timestamp = ts
	return nil
}

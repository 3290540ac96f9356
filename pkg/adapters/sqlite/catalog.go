// Package sqlite provides a SQLite-backed joke catalog.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aretw0/punchline/pkg/domain"

	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Catalog implements ports.Catalog on a SQLite table.
type Catalog struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, migrates it and returns a Catalog.
// ":memory:" is accepted; the pool is then pinned to one connection so every
// query sees the same database.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

// New returns a Catalog bound to an existing, already migrated database handle.
func New(db *sql.DB) (*Catalog, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Catalog{db: db}, nil
}

// Append inserts the joke as the newest row.
func (c *Catalog) Append(ctx context.Context, joke domain.Joke) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO jokes (id, text, category, language, created_at) VALUES (?, ?, ?, ?, ?)`,
		joke.ID, joke.Text, string(joke.Category), string(joke.Language),
		joke.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append joke: insert: %w", err)
	}
	return nil
}

// Recent returns the last n rows in insertion order.
func (c *Catalog) Recent(ctx context.Context, n int) ([]domain.Joke, error) {
	jokes := []domain.Joke{}
	if n <= 0 {
		return jokes, nil
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, text, category, language, created_at FROM (
			SELECT seq, id, text, category, language, created_at FROM jokes ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`, n)
	if err != nil {
		return nil, fmt.Errorf("recent jokes: query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			joke               domain.Joke
			category, language string
			createdAt          string
		)
		if err := rows.Scan(&joke.ID, &joke.Text, &category, &language, &createdAt); err != nil {
			return nil, fmt.Errorf("recent jokes: scan: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("recent jokes: parse created_at: %w", err)
		}
		joke.Category = domain.Category(category)
		joke.Language = domain.Language(language)
		joke.Timestamp = ts
		jokes = append(jokes, joke)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent jokes: rows: %w", err)
	}
	return jokes, nil
}

// Close releases the database handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}

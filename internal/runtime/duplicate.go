package runtime

import (
	"context"

	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/ports"
)

// DuplicatePolicy decides whether a vector is too close to a stored joke.
// The check is global: categories and languages are not partitioned.
type DuplicatePolicy struct {
	Index     ports.SimilarityIndex
	Threshold float64
}

// DuplicateCheck is the result of a duplicate query.
type DuplicateCheck struct {
	// Duplicate is true when the nearest stored vector scores at or above the threshold.
	Duplicate bool
	// Nearest is the best match, nil when the index is empty.
	Nearest *ports.Match
}

// Score returns the nearest similarity, or 0 for an empty index.
func (c DuplicateCheck) Score() float64 {
	if c.Nearest == nil {
		return 0
	}
	return c.Nearest.Score
}

// Text returns the stored text of the nearest joke.
func (c DuplicateCheck) Text() string {
	if c.Nearest == nil {
		return ""
	}
	return c.Nearest.Metadata[domain.MetaText]
}

// Check queries the top-1 neighbour of v. An empty index is never a duplicate.
func (p DuplicatePolicy) Check(ctx context.Context, v domain.Vector) (DuplicateCheck, error) {
	match, err := p.Index.QueryNearest(ctx, v)
	if err != nil {
		return DuplicateCheck{}, err
	}
	if match == nil {
		return DuplicateCheck{}, nil
	}
	return DuplicateCheck{Duplicate: match.Score >= p.Threshold, Nearest: match}, nil
}

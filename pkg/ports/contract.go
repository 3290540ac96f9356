package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/punchline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCatalogContract runs a suite of tests to verify that a Catalog implementation
// adheres to the defined interface contract. newCatalog must return an empty catalog.
func RunCatalogContract(t *testing.T, newCatalog func(t *testing.T) Catalog) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	joke := func(i int, text string) domain.Joke {
		return domain.Joke{
			ID:        "joke-" + text,
			Text:      text,
			Category:  domain.CategoryGeneral,
			Language:  domain.LanguageEnglish,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
	}

	t.Run("Empty Catalog", func(t *testing.T) {
		catalog := newCatalog(t)
		recent, err := catalog.Recent(ctx, 5)
		require.NoError(t, err, "Recent on an empty catalog should not fail")
		assert.Empty(t, recent)
	})

	t.Run("Append and Recent", func(t *testing.T) {
		catalog := newCatalog(t)
		jokes := []domain.Joke{joke(0, "first"), joke(1, "second"), joke(2, "third")}
		for _, j := range jokes {
			require.NoError(t, catalog.Append(ctx, j))
		}

		recent, err := catalog.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)

		// Oldest first
		assert.Equal(t, "second", recent[0].Text)
		assert.Equal(t, "third", recent[1].Text)
		assert.Equal(t, jokes[2].ID, recent[1].ID)
		assert.Equal(t, domain.CategoryGeneral, recent[1].Category)
		assert.True(t, jokes[2].Timestamp.Equal(recent[1].Timestamp), "timestamp should round-trip")
	})

	t.Run("Recent Larger Than Catalog", func(t *testing.T) {
		catalog := newCatalog(t)
		require.NoError(t, catalog.Append(ctx, joke(0, "only")))

		recent, err := catalog.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, "only", recent[0].Text)
	})

	t.Run("Recent Zero", func(t *testing.T) {
		catalog := newCatalog(t)
		require.NoError(t, catalog.Append(ctx, joke(0, "only")))

		recent, err := catalog.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, recent)
	})
}

// RunIndexContract verifies that a SimilarityIndex implementation honours the port.
// newIndex must return an empty index accepting 3-dimensional vectors.
func RunIndexContract(t *testing.T, newIndex func(t *testing.T) SimilarityIndex) {
	ctx := context.Background()

	t.Run("Empty Index", func(t *testing.T) {
		index := newIndex(t)
		match, err := index.QueryNearest(ctx, domain.Vector{1, 0, 0})
		require.NoError(t, err)
		assert.Nil(t, match, "an empty index must report no neighbour")
	})

	t.Run("Upsert and Query", func(t *testing.T) {
		index := newIndex(t)
		require.NoError(t, index.Upsert(ctx, "a", domain.Vector{1, 0, 0}, map[string]string{domain.MetaText: "joke a"}))
		require.NoError(t, index.Upsert(ctx, "b", domain.Vector{0, 1, 0}, map[string]string{domain.MetaText: "joke b"}))

		match, err := index.QueryNearest(ctx, domain.Vector{0.9, 0.1, 0})
		require.NoError(t, err)
		require.NotNil(t, match)
		assert.Equal(t, "a", match.ID)
		assert.Equal(t, "joke a", match.Metadata[domain.MetaText])
		assert.InDelta(t, domain.CosineSimilarity(domain.Vector{0.9, 0.1, 0}, domain.Vector{1, 0, 0}), match.Score, 1e-4)
	})

	t.Run("Upsert Replaces", func(t *testing.T) {
		index := newIndex(t)
		require.NoError(t, index.Upsert(ctx, "a", domain.Vector{1, 0, 0}, map[string]string{domain.MetaText: "old"}))
		require.NoError(t, index.Upsert(ctx, "a", domain.Vector{0, 0, 1}, map[string]string{domain.MetaText: "new"}))

		match, err := index.QueryNearest(ctx, domain.Vector{0, 0, 1})
		require.NoError(t, err)
		require.NotNil(t, match)
		assert.Equal(t, "a", match.ID)
		assert.Equal(t, "new", match.Metadata[domain.MetaText])
		assert.InDelta(t, 1.0, match.Score, 1e-4)
	})
}

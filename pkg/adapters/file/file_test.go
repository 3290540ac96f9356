package file_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/punchline/pkg/adapters/file"
	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCatalog_Contract(t *testing.T) {
	ports.RunCatalogContract(t, func(t *testing.T) ports.Catalog {
		return file.NewCatalog(filepath.Join(t.TempDir(), "jokes_catalog.json"))
	})
}

func TestFileIndex_Contract(t *testing.T) {
	ports.RunIndexContract(t, func(t *testing.T) ports.SimilarityIndex {
		return file.NewIndex(filepath.Join(t.TempDir(), "index.json"))
	})
}

func TestFileCatalog_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "jokes_catalog.json")
	catalog := file.NewCatalog(path)

	joke := domain.Joke{
		ID:        "c0ffee",
		Text:      "I told a UDP joke. You might not get it.",
		Category:  domain.CategoryDadDeveloper,
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, catalog.Append(context.Background(), joke))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// A JSON array with two-space indentation
	assert.Contains(t, string(data), "[\n  {\n    \"id\": \"c0ffee\"")

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "dad developer", raw[0]["category"])
	assert.Equal(t, "2025-01-02T03:04:05Z", raw[0]["timestamp"])
	assert.NotContains(t, raw[0], "language", "empty language is omitted")

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileCatalog_ReadsLegacyEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jokes_catalog.json")
	legacy := `[
  {
    "id": "1",
    "text": "legacy joke",
    "category": "general",
    "timestamp": "2024-05-01T10:00:00.123456"
  }
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	recent, err := file.NewCatalog(path).Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "legacy joke", recent[0].Text)
	assert.Empty(t, recent[0].Language)
	assert.Equal(t, 2024, recent[0].Timestamp.Year())
}

func TestFileCatalog_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jokes_catalog.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := file.NewCatalog(path).Recent(context.Background(), 5)
	assert.Error(t, err)
}

func TestFileIndex_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.json")

	require.NoError(t, file.NewIndex(path).Upsert(ctx, "a", domain.Vector{0, 1}, map[string]string{domain.MetaText: "saved"}))

	// A fresh instance sees the vector written by the first one.
	match, err := file.NewIndex(path).QueryNearest(ctx, domain.Vector{0, 1})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "saved", match.Metadata[domain.MetaText])
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, file.DefaultCatalogPath, file.NewCatalog("").Path)
	assert.Equal(t, file.DefaultIndexPath, file.NewIndex("").Path)
}

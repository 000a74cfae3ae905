package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tycoonhub/pkg/models"
)

func TestFileStore_MissingFileIsEmptyCatalog(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))

	games, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, games)
	assert.NotNil(t, games)
}

func TestFileStore_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"`), 0o644))

	_, err := NewFileStore(path).Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse catalog")
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	store := NewFileStore(path)

	in := []models.Game{
		{
			ID:          "10",
			Title:       "Mall Magnate",
			Description: "Build malls.",
			Platforms:   []string{"windows"},
			Genres:      []string{"Simulation"},
			ReleaseDate: "12 Jun, 2024",
			Price:       19.99,
			Rating:      4.0,
			Features:    []string{"Single-player"},
			Tags:        []string{"Simulation"},
		},
	}
	require.NoError(t, store.Put(context.Background(), in))

	out, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFileStore_WritesIndentedArrayWithTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	store := NewFileStore(path)

	require.NoError(t, store.Put(context.Background(), []models.Game{{ID: "10", Title: "X"}}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(b)
	assert.True(t, strings.HasPrefix(text, "[\n"))
	assert.True(t, strings.HasSuffix(text, "]\n"))
	assert.Contains(t, text, `  {`)
	// the new-entry marker and cover image are derived, never persisted
	assert.NotContains(t, text, "isNew")
	assert.NotContains(t, text, "cover_image")
}

func TestFileStore_NilGamesWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	store := NewFileStore(path)

	require.NoError(t, store.Put(context.Background(), nil))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(b))
}

func TestFileStore_PutCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "catalog.json")
	store := NewFileStore(path)

	require.NoError(t, store.Put(context.Background(), []models.Game{}))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

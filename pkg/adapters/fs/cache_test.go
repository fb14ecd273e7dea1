package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Load(t *testing.T) {
	t.Run("Starts Empty if File Missing", func(t *testing.T) {
		c := newCache(t.TempDir(), ".cache")
		require.NoError(t, c.Load())
		assert.Equal(t, 0, c.Len())
	})

	t.Run("Loads Valid JSON With Numbers Intact", func(t *testing.T) {
		tmpDir := t.TempDir()
		cacheDir := filepath.Join(tmpDir, ".cache")
		require.NoError(t, os.MkdirAll(cacheDir, 0755))

		jsonContent := `{
			"version": 1,
			"entries": {
				"products/a.yaml": {
					"data": {"name": "A", "price": 2500},
					"lastModified": "2026-01-02T03:04:05Z"
				}
			}
		}`
		require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "index.json"), []byte(jsonContent), 0644))

		c := newCache(tmpDir, ".cache")
		require.NoError(t, c.Load())

		mtime := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		entry, ok := c.Get("products/a.yaml", mtime)
		require.True(t, ok)
		assert.Equal(t, "A", entry.Data["name"])
		assert.Equal(t, json.Number("2500"), entry.Data["price"])

		_, ok = c.Get("products/a.yaml", mtime.Add(time.Second))
		assert.False(t, ok, "stale entry")
	})

	t.Run("Resets on Corrupted or Outdated JSON", func(t *testing.T) {
		for _, content := range []string{`{not json`, `{"version": 99, "entries": {"x": {}}}`} {
			tmpDir := t.TempDir()
			cacheDir := filepath.Join(tmpDir, ".cache")
			require.NoError(t, os.MkdirAll(cacheDir, 0755))
			require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "index.json"), []byte(content), 0644))

			c := newCache(tmpDir, ".cache")
			require.NoError(t, c.Load())
			assert.Equal(t, 0, c.Len())
		}
	})
}

func TestCache_SaveAndPrune(t *testing.T) {
	tmpDir := t.TempDir()
	c := newCache(tmpDir, ".cache")
	now := time.Now().Truncate(time.Second)

	// Nothing to write while clean.
	require.NoError(t, c.Save())
	assert.NoFileExists(t, c.Path)

	c.Set("base/default.yaml", &indexEntry{Data: map[string]any{"hero": map[string]any{"title": "x"}}, LastModified: now})
	c.Set("products/a.md", &indexEntry{Data: map[string]any{}, Body: "overview", LastModified: now})
	require.NoError(t, c.Save())
	assert.FileExists(t, c.Path)

	reloaded := newCache(tmpDir, ".cache")
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 2, reloaded.Len())
	entry, ok := reloaded.Get("products/a.md", now)
	require.True(t, ok)
	assert.Equal(t, "overview", entry.Body)

	reloaded.Prune(map[string]bool{"base/default.yaml": true})
	assert.Equal(t, 1, reloaded.Len())
	_, ok = reloaded.Get("products/a.md", now)
	assert.False(t, ok)
}

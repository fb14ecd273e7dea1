package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), TempFilePrefix), "leftover %s", e.Name())
	}
}

func TestWriteAtomic(t *testing.T) {
	t.Run("Creates File And Parents", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), ".herbcat", "index.json")

		require.NoError(t, writeBytes(filename, []byte("{}\n")))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "{}\n", string(got))
		noTempFiles(t, filepath.Dir(filename))
	})

	t.Run("Overwrites Existing File", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "herbcat.yaml")
		require.NoError(t, os.WriteFile(filename, []byte("initial"), 0644))

		require.NoError(t, writeBytes(filename, []byte("overwritten")))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "overwritten", string(got))
	})

	t.Run("Failed Fill Keeps Previous Content", func(t *testing.T) {
		dir := t.TempDir()
		filename := filepath.Join(dir, "default.yaml")
		require.NoError(t, os.WriteFile(filename, []byte("hero: {}\n"), 0644))

		boom := errors.New("encoder failed")
		err := writeAtomic(filename, 0644, func(w io.Writer) error {
			_, _ = io.WriteString(w, "half")
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "hero: {}\n", string(got))
		noTempFiles(t, dir)
	})

	t.Run("Applies Permissions", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "a.yaml")
		require.NoError(t, writeAtomic(filename, 0600, func(w io.Writer) error {
			_, err := io.WriteString(w, "a: 1\n")
			return err
		}))

		info, err := os.Stat(filename)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("Fails If Parent Is A File", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "products")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
		assert.Error(t, writeBytes(filepath.Join(blocker, "a.yaml"), []byte("fail")))
	})
}

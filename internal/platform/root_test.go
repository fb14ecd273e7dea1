package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	// /tmp/
	//   catalog/ (herbcat.yaml)
	//     products/
	//       men/
	//   bare/ (base/ only)
	//     base/
	//   empty/
	//     base (a file, not a directory)

	baseDir := t.TempDir()
	catalogDir := filepath.Join(baseDir, "catalog")
	productsDir := filepath.Join(catalogDir, "products")
	menDir := filepath.Join(productsDir, "men")
	bareDir := filepath.Join(baseDir, "bare")
	emptyDir := filepath.Join(baseDir, "empty")

	require.NoError(t, os.MkdirAll(menDir, 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(bareDir, "base"), 0755))
	require.NoError(t, os.MkdirAll(emptyDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(catalogDir, "herbcat.yaml"), []byte("locales: {}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(emptyDir, "base"), []byte("not a dir"), 0644))

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{"Start at Root", catalogDir, catalogDir, false},
		{"Start in Subdir", productsDir, catalogDir, false},
		{"Start Nested Deeply", menDir, catalogDir, false},
		{"Base Directory Marker", filepath.Join(bareDir, "base"), bareDir, false},
		{"No Root Found", emptyDir, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if tt.wantErr {
				// A marker further up the real filesystem would be found; only
				// assert when nothing was.
				if err != nil {
					assert.ErrorIs(t, err, ErrRootNotFound)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.wantRoot), filepath.Clean(got))
		})
	}
}

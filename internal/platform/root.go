package platform

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aretw0/herbcat/pkg/adapters/fs"
)

// ErrRootNotFound is returned by FindRoot when no catalog root is found.
var ErrRootNotFound = errors.New("catalog root not found")

// FindRoot walks upwards from startDir looking for a catalog root: a
// directory holding herbcat.yaml or a base/ directory. It returns the
// absolute path of the first match.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, fs.ConfigFile) || hasDir(dir, fs.BaseDir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}

func hasDir(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.IsDir()
}

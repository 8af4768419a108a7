// Package dotdir locates the .vignettes/ directory holding config.toml and
// credentials.toml.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the name of the vignettes directory.
const DirName = ".vignettes"

type Manager struct {
	getwd   func() (string, error)
	homeDir func() (string, error)
}

func NewManager() *Manager {
	return &Manager{getwd: os.Getwd, homeDir: os.UserHomeDir}
}

// Target returns the absolute .vignettes/ directory to use, creating it when
// needed. An override wins. Otherwise the nearest .vignettes/ in the working
// directory or one of its parents is used, so commands run from inside a
// campaign folder find its config. ~/.vignettes/ is the fallback.
func (m *Manager) Target(override string) (string, error) {
	if override != "" {
		return ensure(override)
	}

	cwd, err := m.getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	if dir, ok := Find(cwd); ok {
		return dir, nil
	}

	home, err := m.homeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return ensure(filepath.Join(home, DirName))
}

// Find walks from start up to the filesystem root and returns the first
// .vignettes/ directory it sees.
func Find(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func ensure(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating vignettes directory %s: %w", dir, err)
	}
	return filepath.Abs(dir)
}

package combat

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CopyLogs copies every CombatLog*.log file found under root into dir,
// leaving files that already exist there untouched. It returns the paths
// created.
func CopyLogs(root, dir string) ([]string, error) {
	var copied []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() || !strings.HasPrefix(name, "CombatLog") || !strings.HasSuffix(name, ".log") {
			return nil
		}

		dst := filepath.Join(dir, name)
		if _, err := os.Stat(dst); err == nil {
			return nil
		}

		if err := copyFile(path, dst); err != nil {
			return fmt.Errorf("copying %s: %w", name, err)
		}
		copied = append(copied, dst)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return copied, err
	}

	return copied, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}

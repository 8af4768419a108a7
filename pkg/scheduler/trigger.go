// Package scheduler decides when a generation cycle is due and runs the
// poll loop that triggers it.
package scheduler

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"
)

// ShouldGenerate reports whether a cycle is due: at least interval has passed
// since lastExecution and something under the input tree changed within the
// last interval. A zero lastExecution is always old enough.
func ShouldGenerate(lastExecution time.Time, interval time.Duration, now, newestModification time.Time) bool {
	if !lastExecution.IsZero() && now.Sub(lastExecution) < interval {
		return false
	}
	return newestModification.After(now.Add(-interval))
}

// NewestModification returns the most recent file modification time under
// root. A missing root yields the zero time.
func NewestModification(root string) (time.Time, error) {
	var newest time.Time

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// Vanished between listing and stat.
			return nil
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("scanning %s: %w", root, err)
	}

	return newest, nil
}

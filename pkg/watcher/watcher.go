// Package watcher turns filesystem notifications on the game's save folder
// into debounced save processing requests.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler receives a save path once it has settled and passed the cooldown.
type Handler func(path string)

// Config for a Watcher.
type Config struct {
	Dir       string
	Extension string
	Cooldown  time.Duration
	Settle    time.Duration
	CacheSize int
	Handler   Handler
	Logger    *slog.Logger
	Now       func() time.Time
}

// Watcher watches a directory tree for created or modified save files.
type Watcher struct {
	config    *Config
	debouncer *Debouncer
	logger    *slog.Logger
	now       func() time.Time
	pending   sync.WaitGroup
}

func New(c *Config) (*Watcher, error) {
	if c.Dir == "" {
		return nil, errors.New("watcher needs a directory")
	}
	if c.Handler == nil {
		return nil, errors.New("watcher needs a handler")
	}

	now := c.Now
	if now == nil {
		now = time.Now
	}

	return &Watcher{
		config:    c,
		debouncer: NewDebouncer(c.Cooldown, c.CacheSize),
		logger:    c.Logger,
		now:       now,
	}, nil
}

// Matches reports whether path has the watched extension, ignoring case.
func (w *Watcher) Matches(path string) bool {
	return strings.EqualFold(filepath.Ext(path), w.config.Extension)
}

// Run blocks until ctx is cancelled or the notification backend fails.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating save watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(ctx, fsw, w.config.Dir, false); err != nil {
		return err
	}
	w.logger.Info("watching save folder", "dir", w.config.Dir, "extension", w.config.Extension)

	defer w.pending.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(ctx, fsw, event.Name, true); err != nil {
						w.logger.Warn("watching new folder", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			w.Notify(ctx, event.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("save watcher error: %w", err)
		}
	}
}

// addTree registers root and every directory below it, since fsnotify only
// reports direct children. For a folder that appeared while running, saves
// already written into it are notified because their events were missed.
func (w *Watcher) addTree(ctx context.Context, fsw *fsnotify.Watcher, root string, notifyFiles bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path != root && errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("walking %s: %w", path, err)
		}
		if !d.IsDir() {
			if notifyFiles {
				w.Notify(ctx, path)
			}
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Notify handles one create or write notification for path. After the
// settle delay the file must still exist and be outside its cooldown.
func (w *Watcher) Notify(ctx context.Context, path string) {
	if !w.Matches(path) {
		return
	}
	w.logger.Debug("save notification", "path", path)

	w.pending.Add(1)
	go func() {
		defer w.pending.Done()

		t := time.NewTimer(w.config.Settle)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return
		}
		if !w.debouncer.Allow(path, w.now()) {
			w.logger.Debug("save within cooldown, skipping", "path", path)
			return
		}

		w.logger.Info("save file detected", "path", path)
		w.config.Handler(path)
	}()
}

// Wait blocks until every pending notification has been handled.
func (w *Watcher) Wait() {
	w.pending.Wait()
}

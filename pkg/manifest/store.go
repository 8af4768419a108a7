package manifest

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/vignettes/pkg/docstore"
)

// Store persists the manifest as a JSON array of strings.
type Store struct {
	path   string
	locker *docstore.Locker
	logger *slog.Logger
}

func NewStore(path string, locker *docstore.Locker, logger *slog.Logger) *Store {
	return &Store{path: path, locker: locker, logger: logger}
}

func (s *Store) Path() string { return s.path }

// Load returns the persisted manifest. A missing or unreadable file loads
// as an empty manifest.
func (s *Store) Load() []string {
	var entries []string
	if err := docstore.ReadJSON(s.path, &entries); err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			s.logger.Warn("manifest unreadable, starting empty", "path", s.path, "error", err)
		}
		return []string{}
	}
	return entries
}

// Save cleans entries and writes them. The NewMarker annotation never
// reaches disk.
func (s *Store) Save(entries []string) error {
	if err := docstore.WriteJSON(s.path, Clean(entries)); err != nil {
		return fmt.Errorf("saving manifest: %w", err)
	}
	return nil
}

// Reconcile diffs current against the persisted manifest and persists the
// cleaned result in one locked window.
func (s *Store) Reconcile(current []string) (Result, error) {
	var res Result

	err := s.locker.With(s.path, func() error {
		res = Diff(s.Load(), current)
		if len(res.New) == 0 {
			return nil
		}
		return s.Save(res.Updated)
	})
	if err != nil {
		return Result{}, err
	}

	s.logger.Debug("manifest reconciled",
		"path", s.path,
		"entries", len(res.Updated),
		"new", len(res.New),
	)

	return res, nil
}

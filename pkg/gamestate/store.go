package gamestate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/vignettes/pkg/docstore"
)

var (
	// ErrNotFound is returned when the game state document does not exist.
	ErrNotFound = errors.New("game state document not found")

	// ErrUnsupportedVersion is returned for documents written by a newer
	// schema than this build understands.
	ErrUnsupportedVersion = errors.New("unsupported game state schema version")
)

// Store reads and writes the game state document. Every read-modify-write
// goes through Update so concurrent writers serialise on the document lock.
type Store struct {
	path   string
	locker *docstore.Locker
	logger *slog.Logger
}

func NewStore(path string, locker *docstore.Locker, logger *slog.Logger) *Store {
	return &Store{path: path, locker: locker, logger: logger}
}

func (s *Store) Path() string { return s.path }

// Load reads the document without taking the lock. The result is normalized.
func (s *Store) Load() (*Document, error) {
	doc := &Document{}
	if err := docstore.ReadJSON(s.path, doc); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("loading game state: %w", err)
	}

	if doc.SchemaVersion > CurrentSchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.SchemaVersion)
	}

	doc.Normalize()
	return doc, nil
}

// Save writes doc without taking the lock. Callers that read first should
// use Update instead.
func (s *Store) Save(doc *Document) error {
	doc.Normalize()
	if err := docstore.WriteJSON(s.path, doc); err != nil {
		return fmt.Errorf("saving game state: %w", err)
	}
	return nil
}

// Update loads the document, applies fn and saves the result inside one
// locked window. When fn returns an error nothing is written. The returned
// document is the state after fn.
func (s *Store) Update(fn func(doc *Document) error) (*Document, error) {
	var out *Document

	err := s.locker.With(s.path, func() error {
		doc, err := s.Load()
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		if err := s.Save(doc); err != nil {
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("game state updated", "path", s.path)

	return out, nil
}

// Init writes an empty document when none exists.
func (s *Store) Init() (bool, error) {
	created := false

	err := s.locker.With(s.path, func() error {
		if _, err := s.Load(); !errors.Is(err, ErrNotFound) {
			return nil
		}
		created = true
		return s.Save(New())
	})

	return created, err
}

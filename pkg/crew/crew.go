// Package crew stores the free-form crew details document and validates the
// model-produced replacements for it.
package crew

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/papercomputeco/vignettes/pkg/docstore"
)

// ErrUnrepairable is returned when model output is not valid JSON even after
// closing its open braces.
var ErrUnrepairable = errors.New("crew details could not be repaired")

// Document is the crew details JSON as-is. Its shape is owned by the user
// and the model.
type Document json.RawMessage

// Empty is the document used when none exists yet.
var Empty = Document(`{}`)

// Pretty returns the document indented for prompts and logs.
func (d Document) Pretty() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, d, "", "  "); err != nil {
		return string(d)
	}
	return buf.String()
}

func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("{}"), nil
	}
	return d, nil
}

// Repair appends the closing braces missing from raw. Nothing else is
// touched, so a response cut off inside a string stays invalid.
func Repair(raw string) string {
	missing := strings.Count(raw, "{") - strings.Count(raw, "}")
	if missing <= 0 {
		return raw
	}
	return raw + strings.Repeat("}", missing)
}

// Validate extracts the JSON object from a model response. Text before the
// first brace is dropped. Invalid JSON gets one Repair attempt.
func Validate(response string) (Document, error) {
	start := strings.IndexByte(response, '{')
	if start < 0 {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrUnrepairable)
	}
	candidate := strings.TrimSpace(response[start:])

	if json.Valid([]byte(candidate)) {
		return Document(candidate), nil
	}

	repaired := Repair(candidate)
	if json.Valid([]byte(repaired)) {
		return Document(repaired), nil
	}

	return nil, ErrUnrepairable
}

// Store reads and writes the crew details document.
type Store struct {
	path   string
	locker *docstore.Locker
	logger *slog.Logger
}

func NewStore(path string, locker *docstore.Locker, logger *slog.Logger) *Store {
	return &Store{path: path, locker: locker, logger: logger}
}

func (s *Store) Path() string { return s.path }

// Load returns the stored document. A missing or invalid file yields Empty.
func (s *Store) Load() Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("crew details unreadable, using empty", "path", s.path, "error", err)
		}
		return Empty
	}
	if !json.Valid(data) {
		s.logger.Warn("crew details are not valid JSON, using empty", "path", s.path)
		return Empty
	}
	return Document(bytes.TrimSpace(data))
}

// Save writes doc indented under the document lock.
func (s *Store) Save(doc Document) error {
	if !json.Valid(doc) {
		return fmt.Errorf("saving crew details: %w", ErrUnrepairable)
	}

	return s.locker.With(s.path, func() error {
		if err := docstore.WriteFile(s.path, []byte(doc.Pretty()+"\n")); err != nil {
			return fmt.Errorf("saving crew details: %w", err)
		}
		return nil
	})
}

package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/papercomputeco/vignettes/pkg/docstore"
)

// isoLocalLayout accepts markers written without a zone offset.
const isoLocalLayout = "2006-01-02T15:04:05.999999999"

type marker struct {
	LastExecutionTime string `json:"last_execution_time"`
}

// MarkerStore persists the time of the last successful generation cycle.
type MarkerStore struct {
	path string
}

func NewMarkerStore(path string) *MarkerStore {
	return &MarkerStore{path: path}
}

func (m *MarkerStore) Path() string { return m.path }

// Last returns the recorded execution time. A missing marker returns the
// zero time, meaning a cycle has never run.
func (m *MarkerStore) Last() (time.Time, error) {
	var mk marker
	if err := docstore.ReadJSON(m.path, &mk); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("reading execution marker: %w", err)
	}

	if t, err := time.Parse(time.RFC3339Nano, mk.LastExecutionTime); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(isoLocalLayout, mk.LastExecutionTime, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing execution marker %q: %w", mk.LastExecutionTime, err)
	}
	return t, nil
}

// Record writes t as the last execution time.
func (m *MarkerStore) Record(t time.Time) error {
	if err := docstore.WriteJSON(m.path, marker{LastExecutionTime: t.Format(time.RFC3339Nano)}); err != nil {
		return fmt.Errorf("writing execution marker: %w", err)
	}
	return nil
}

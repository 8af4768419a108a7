package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeCycleCompleted is emitted after a generation cycle persisted
	// its artifacts.
	EventTypeCycleCompleted = "vignettes.cycle.completed"

	// EventTypeLocationsDiscovered is emitted when save processing finds new
	// in-game locations.
	EventTypeLocationsDiscovered = "vignettes.locations.discovered"
)

// Event is a transport-neutral event payload.
type Event struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Source        EventSource `json:"source"`

	Cycle     *CycleMeta     `json:"cycle,omitempty"`
	Locations *LocationsMeta `json:"locations,omitempty"`
}

// EventSource identifies which component emitted the event.
type EventSource struct {
	Component string `json:"component"`
	Host      string `json:"host,omitempty"`
}

// CycleMeta describes a completed generation cycle.
type CycleMeta struct {
	CycleID      string `json:"cycle_id"`
	VignettePath string `json:"vignette_path"`
	SummaryPath  string `json:"summary_path"`
	Model        string `json:"model"`
	CrewUpdated  bool   `json:"crew_updated"`
	DurationMs   int64  `json:"duration_ms"`
	Interactive  bool   `json:"interactive,omitempty"`
}

// LocationsMeta describes locations found in one save.
type LocationsMeta struct {
	Save      string   `json:"save"`
	Locations []string `json:"locations"`
}

// NewEvent returns an event with a fresh id stamped at now.
func NewEvent(eventType, component string, now time.Time) *Event {
	return &Event{
		SchemaVersion: SchemaVersionV1,
		EventType:     eventType,
		EventID:       uuid.NewString(),
		EmittedAt:     now.UTC(),
		Source:        EventSource{Component: component},
	}
}

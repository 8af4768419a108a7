// Package gamestate holds the shared game state document: party, ship, plot,
// combat and narrative context read by the generation cycle and updated by
// save processing.
package gamestate

import (
	"encoding/json"
	"reflect"
	"strings"
)

// CurrentSchemaVersion is written into every saved document. Documents
// without a version are treated as version 1.
const CurrentSchemaVersion = 1

const (
	RecentLocationsCap = 10
	PreviousFightsCap  = 3
	InterludesCap      = 3
)

// Extra carries JSON members the typed model does not know about, so
// hand-maintained keys survive a load/save round trip.
type Extra map[string]json.RawMessage

type Document struct {
	SchemaVersion int          `json:"schema_version"`
	PartyContext  PartyContext `json:"party_context"`
	ShipContext   ShipContext  `json:"ship_context"`
	PlotState     PlotState    `json:"plot_state"`
	CombatLog     CombatLog    `json:"combat_log"`
	NarrativeLog  NarrativeLog `json:"narrative_log"`

	Extra Extra `json:"-"`
}

type PartyContext struct {
	ActiveMembers []string `json:"active_members"`
	SideMembers   []string `json:"side_members"`

	Extra Extra `json:"-"`
}

type ShipContext struct {
	NamedCrew []string `json:"named_crew"`

	Extra Extra `json:"-"`
}

type PlotState struct {
	// RecentLocations is most-recent-first.
	RecentLocations []string `json:"recent_locations"`

	Extra Extra `json:"-"`
}

type CombatLog struct {
	LatestExecutiveSummary string `json:"latest_executive_summary,omitempty"`
	LatestSummaryTimestamp string `json:"latest_summary_timestamp,omitempty"`
	LatestSummarySource    string `json:"latest_summary_source,omitempty"`

	// PreviousFights is most-recent-first.
	PreviousFights []string `json:"previous_fights"`

	Extra Extra `json:"-"`
}

type NarrativeLog struct {
	// PreviousInterludes is most-recent-first.
	PreviousInterludes []string `json:"previous_interludes"`

	Extra Extra `json:"-"`
}

func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	return decodeSection(data, (*plain)(d), &d.Extra)
}

func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	return encodeSection(plain(d), d.Extra)
}

func (p *PartyContext) UnmarshalJSON(data []byte) error {
	type plain PartyContext
	return decodeSection(data, (*plain)(p), &p.Extra)
}

func (p PartyContext) MarshalJSON() ([]byte, error) {
	type plain PartyContext
	return encodeSection(plain(p), p.Extra)
}

func (s *ShipContext) UnmarshalJSON(data []byte) error {
	type plain ShipContext
	return decodeSection(data, (*plain)(s), &s.Extra)
}

func (s ShipContext) MarshalJSON() ([]byte, error) {
	type plain ShipContext
	return encodeSection(plain(s), s.Extra)
}

func (p *PlotState) UnmarshalJSON(data []byte) error {
	type plain PlotState
	return decodeSection(data, (*plain)(p), &p.Extra)
}

func (p PlotState) MarshalJSON() ([]byte, error) {
	type plain PlotState
	return encodeSection(plain(p), p.Extra)
}

func (c *CombatLog) UnmarshalJSON(data []byte) error {
	type plain CombatLog
	return decodeSection(data, (*plain)(c), &c.Extra)
}

func (c CombatLog) MarshalJSON() ([]byte, error) {
	type plain CombatLog
	return encodeSection(plain(c), c.Extra)
}

func (n *NarrativeLog) UnmarshalJSON(data []byte) error {
	type plain NarrativeLog
	return decodeSection(data, (*plain)(n), &n.Extra)
}

func (n NarrativeLog) MarshalJSON() ([]byte, error) {
	type plain NarrativeLog
	return encodeSection(plain(n), n.Extra)
}

// decodeSection fills known from data and stores every member that known
// does not declare in extra.
func decodeSection(data []byte, known any, extra *Extra) error {
	if err := json.Unmarshal(data, known); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range jsonKeys(known) {
		delete(all, k)
	}

	*extra = nil
	if len(all) > 0 {
		*extra = all
	}
	return nil
}

// encodeSection marshals known and merges extra members back in. Typed
// fields win over extra members with the same name.
func encodeSection(known any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := all[k]; !ok {
			all[k] = v
		}
	}

	return json.Marshal(all)
}

// jsonKeys lists the JSON member names declared by a struct or struct pointer.
func jsonKeys(v any) []string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	keys := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		keys = append(keys, name)
	}
	return keys
}

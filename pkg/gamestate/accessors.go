package gamestate

import (
	"slices"
	"time"

	"github.com/papercomputeco/vignettes/pkg/history"
	"github.com/papercomputeco/vignettes/pkg/location"
)

// New returns an empty document at the current schema version.
func New() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize re-establishes the history capacities and replaces missing
// sequences with empty ones. Hand-edited documents may violate both.
func (d *Document) Normalize() {
	if d.SchemaVersion == 0 {
		d.SchemaVersion = CurrentSchemaVersion
	}

	d.PartyContext.ActiveMembers = nonNil(d.PartyContext.ActiveMembers)
	d.PartyContext.SideMembers = nonNil(d.PartyContext.SideMembers)
	d.ShipContext.NamedCrew = nonNil(d.ShipContext.NamedCrew)

	d.PlotState.RecentLocations = nonNil(history.Trim(d.PlotState.RecentLocations, RecentLocationsCap))
	d.CombatLog.PreviousFights = nonNil(history.Trim(d.CombatLog.PreviousFights, PreviousFightsCap))
	d.NarrativeLog.PreviousInterludes = nonNil(history.Trim(d.NarrativeLog.PreviousInterludes, InterludesCap))
}

// PushRecentLocations normalizes names and pushes the ones not already
// tracked to the head one by one, so the last name ends up first. It returns
// the inserted names.
func (d *Document) PushRecentLocations(names []string) []string {
	var inserted []string
	d.PlotState.RecentLocations, inserted = history.PushAll(
		d.PlotState.RecentLocations,
		location.NormalizeAll(names),
		RecentLocationsCap,
		history.InsertIfAbsent,
	)
	return inserted
}

// RecordCombatSummary makes text the latest combat summary. When either the
// text or its source differs from the recorded latest summary, the previous
// latest is rotated into PreviousFights. An unchanged summary leaves the
// document untouched and reports false.
func (d *Document) RecordCombatSummary(text, source string, now time.Time) bool {
	c := &d.CombatLog
	if text == c.LatestExecutiveSummary && source == c.LatestSummarySource {
		return false
	}

	if c.LatestExecutiveSummary != "" {
		c.PreviousFights, _ = history.Push(c.PreviousFights, c.LatestExecutiveSummary, PreviousFightsCap, history.AlwaysInsert)
	}

	c.LatestExecutiveSummary = text
	c.LatestSummaryTimestamp = now.Format(time.RFC3339)
	c.LatestSummarySource = source

	return true
}

// PushInterlude records a narrative summary at the head of the interlude
// history. Duplicates are kept.
func (d *Document) PushInterlude(summary string) {
	d.NarrativeLog.PreviousInterludes, _ = history.Push(
		d.NarrativeLog.PreviousInterludes,
		summary,
		InterludesCap,
		history.AlwaysInsert,
	)
}

// Clone returns a deep copy of the typed fields. Extra members are shared.
func (d *Document) Clone() *Document {
	c := *d
	c.PartyContext.ActiveMembers = slices.Clone(d.PartyContext.ActiveMembers)
	c.PartyContext.SideMembers = slices.Clone(d.PartyContext.SideMembers)
	c.ShipContext.NamedCrew = slices.Clone(d.ShipContext.NamedCrew)
	c.PlotState.RecentLocations = slices.Clone(d.PlotState.RecentLocations)
	c.CombatLog.PreviousFights = slices.Clone(d.CombatLog.PreviousFights)
	c.NarrativeLog.PreviousInterludes = slices.Clone(d.NarrativeLog.PreviousInterludes)
	return &c
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

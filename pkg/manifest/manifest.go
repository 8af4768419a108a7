// Package manifest tracks every relative path ever seen inside a processed
// save archive and detects newly appeared entries.
package manifest

import (
	"strings"
)

// NewMarker annotates entries that first appeared in the current listing.
// It lives only in memory; Clean strips it before anything is persisted.
const NewMarker = " - NEW"

// Result is the outcome of comparing a listing against the manifest.
type Result struct {
	// Updated is the annotated manifest: every current entry in listing
	// order, new ones suffixed with NewMarker, followed by every historical
	// entry missing from the listing.
	Updated []string

	// New holds the entries of current absent from previous, in listing order.
	New []string
}

// Diff compares current against previous using exact string equality.
// Previous entries are compared with any NewMarker stripped. Entries absent
// from current are kept unless they are themselves annotated.
func Diff(previous, current []string) Result {
	seen := make(map[string]struct{}, len(previous))
	for _, entry := range previous {
		seen[strings.TrimSuffix(entry, NewMarker)] = struct{}{}
	}

	inCurrent := make(map[string]struct{}, len(current))
	res := Result{Updated: make([]string, 0, len(current)+len(previous))}

	for _, entry := range current {
		if _, dup := inCurrent[entry]; dup {
			continue
		}
		inCurrent[entry] = struct{}{}

		if _, ok := seen[entry]; ok {
			res.Updated = append(res.Updated, entry)
			continue
		}
		res.New = append(res.New, entry)
		res.Updated = append(res.Updated, entry+NewMarker)
	}

	for _, entry := range previous {
		if strings.HasSuffix(entry, NewMarker) {
			continue
		}
		if _, ok := inCurrent[entry]; ok {
			continue
		}
		res.Updated = append(res.Updated, entry)
	}

	return res
}

// Clean strips NewMarker from every entry and removes duplicates, keeping
// the first occurrence.
func Clean(entries []string) []string {
	out := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		entry = strings.TrimSuffix(entry, NewMarker)
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}

	return out
}

// Package history implements bounded, most-recent-first rotating histories.
//
// A history is a plain slice whose index 0 is the newest item. Every
// operation returns a slice no longer than its capacity; overflow is dropped
// from the tail. The package does no I/O.
package history

// Policy decides whether a pushed item is inserted.
type Policy int

const (
	// InsertIfAbsent skips items already present anywhere in the history
	// and leaves the existing order untouched.
	InsertIfAbsent Policy = iota

	// AlwaysInsert inserts every item, duplicates included.
	AlwaysInsert

	// InsertIfChanged skips an item equal to the current head.
	InsertIfChanged
)

func (p Policy) String() string {
	switch p {
	case InsertIfAbsent:
		return "insert-if-absent"
	case AlwaysInsert:
		return "always-insert"
	case InsertIfChanged:
		return "insert-if-changed"
	default:
		return "unknown"
	}
}

// Push inserts item at the head of items according to policy and trims the
// result to capacity. The returned bool reports whether item was inserted.
// The input slice is never modified.
func Push[T comparable](items []T, item T, capacity int, policy Policy) ([]T, bool) {
	if !admit(items, item, policy) {
		return Trim(items, capacity), false
	}

	out := make([]T, 0, min(len(items)+1, max(capacity, 0)))
	out = append(out, item)
	out = append(out, items...)

	return Trim(out, capacity), capacity > 0
}

// PushAll pushes each element of batch in order, so the last admitted
// element ends up at the head. It returns the items actually inserted, in
// batch order.
func PushAll[T comparable](items []T, batch []T, capacity int, policy Policy) ([]T, []T) {
	out := items
	var inserted []T

	for _, item := range batch {
		var ok bool
		// Trim once at the end so later pushes see the whole history when
		// checking for duplicates.
		out, ok = Push(out, item, len(out)+1, policy)
		if ok {
			inserted = append(inserted, item)
		}
	}

	return Trim(out, capacity), inserted
}

// Trim returns items cut to capacity. A non-positive capacity yields an
// empty history.
func Trim[T any](items []T, capacity int) []T {
	if capacity <= 0 {
		return []T{}
	}
	if len(items) <= capacity {
		return items
	}
	return items[:capacity:capacity]
}

func admit[T comparable](items []T, item T, policy Policy) bool {
	switch policy {
	case InsertIfAbsent:
		for _, existing := range items {
			if existing == item {
				return false
			}
		}
		return true
	case InsertIfChanged:
		return len(items) == 0 || items[0] != item
	default:
		return true
	}
}

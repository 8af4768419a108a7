package watcher

import (
	"container/list"
	"sync"
	"time"
)

const DefaultCacheSize = 256

// Debouncer remembers when each path was last accepted. It holds at most
// size paths, evicting the least recently seen.
type Debouncer struct {
	mu       sync.Mutex
	cooldown time.Duration
	size     int
	entries  map[string]*list.Element
	order    *list.List
}

type seen struct {
	path string
	at   time.Time
}

func NewDebouncer(cooldown time.Duration, size int) *Debouncer {
	if size < 1 {
		size = DefaultCacheSize
	}
	return &Debouncer{
		cooldown: cooldown,
		size:     size,
		entries:  make(map[string]*list.Element, size),
		order:    list.New(),
	}
}

// Allow reports whether path may be processed at now. A path accepted less
// than the cooldown ago is refused and its timestamp left alone.
func (d *Debouncer) Allow(path string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if elem, ok := d.entries[path]; ok {
		s := elem.Value.(*seen)
		d.order.MoveToFront(elem)
		if now.Sub(s.at) < d.cooldown {
			return false
		}
		s.at = now
		return true
	}

	d.entries[path] = d.order.PushFront(&seen{path: path, at: now})
	for d.order.Len() > d.size {
		oldest := d.order.Back()
		d.order.Remove(oldest)
		delete(d.entries, oldest.Value.(*seen).path)
	}
	return true
}

// Len returns the number of remembered paths.
func (d *Debouncer) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.order.Len()
}

// Package dedupe tracks event IDs that have already been seen.
package dedupe

import (
	"sync"
)

const defaultMaxSize = 50_000

// Deduper records seen IDs.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded and records it
	// if not. Empty IDs are never recorded and always report false.
	SeenAndRecord(id string) bool

	// Size returns the number of IDs currently tracked.
	Size() int
}

// inMemoryDeduper keeps up to maxSize IDs. Once full, the oldest ID is
// forgotten first. maxSize <= 0 means unbounded.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // ring of recorded IDs, oldest at head
	head    int
	maxSize int
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(id string) bool {
	if id == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	if d.maxSize <= 0 {
		return false
	}

	if len(d.order) < d.maxSize {
		d.order = append(d.order, id)
		return false
	}
	delete(d.seen, d.order[d.head])
	d.order[d.head] = id
	d.head = (d.head + 1) % d.maxSize
	return false
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// Package repository keeps recently generated sample sets so they can be
// fetched again by ID.
package repository

import (
	"container/list"
	"context"
	"fmt"
	"sync"
)

// Store provides access to stored items keyed by ID.
type Store[T any] interface {
	// Put stores v under id, replacing any previous value.
	Put(ctx context.Context, id string, v T) error

	// Get returns the item stored under id or ErrNotFound.
	Get(ctx context.Context, id string) (T, error)

	// Recent returns up to n items, newest first.
	Recent(ctx context.Context, n int) ([]T, error)

	// Count returns the number of stored items.
	Count(ctx context.Context) int
}

// Weigher is implemented by values that take more than one unit of a
// store's weight budget, such as datasets weighed by their point count.
type Weigher interface {
	Weight() int
}

func weightOf(v any) int {
	if w, ok := v.(Weigher); ok {
		return max(w.Weight(), 1)
	}
	return 1
}

type item[T any] struct {
	id     string
	value  T
	weight int
}

// MemoryStore is a bounded in-memory Store. Inserts beyond capacity, or
// beyond the weight budget when one is set, evict the oldest items.
type MemoryStore[T any] struct {
	mu        sync.RWMutex
	byID      map[string]*list.Element
	order     *list.List // front is newest
	capacity  int
	maxWeight int
	weight    int
	onChange  func(size int)
}

var _ Store[int] = (*MemoryStore[int])(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore[T any](opts ...Option) *MemoryStore[T] {
	o := storeOptions{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryStore[T]{
		byID:      make(map[string]*list.Element),
		order:     list.New(),
		capacity:  o.capacity,
		maxWeight: o.maxWeight,
		onChange:  o.onChange,
	}
}

// Capacity returns the maximum number of stored items.
func (s *MemoryStore[T]) Capacity() int { return s.capacity }

// Weight returns the summed weight of stored items.
func (s *MemoryStore[T]) Weight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weight
}

func (s *MemoryStore[T]) Put(_ context.Context, id string, v T) error {
	w := weightOf(v)
	if s.maxWeight > 0 && w > s.maxWeight {
		return fmt.Errorf("%w: %s weighs %d, budget is %d", ErrTooLarge, id, w, s.maxWeight)
	}

	s.mu.Lock()
	if el, ok := s.byID[id]; ok {
		it := el.Value.(*item[T])
		s.weight += w - it.weight
		it.value, it.weight = v, w
		s.order.MoveToFront(el)
	} else {
		s.byID[id] = s.order.PushFront(&item[T]{id: id, value: v, weight: w})
		s.weight += w
	}
	// The newest item always fits, so eviction stops before reaching it.
	for s.order.Len() > 1 && (s.order.Len() > s.capacity || (s.maxWeight > 0 && s.weight > s.maxWeight)) {
		oldest := s.order.Back()
		it := s.order.Remove(oldest).(*item[T])
		delete(s.byID, it.id)
		s.weight -= it.weight
	}
	size := s.order.Len()
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(size)
	}
	return nil
}

func (s *MemoryStore[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	el, ok := s.byID[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return el.Value.(*item[T]).value, nil
}

func (s *MemoryStore[T]) Recent(_ context.Context, n int) ([]T, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, min(n, s.order.Len()))
	for el := s.order.Front(); el != nil && len(out) < n; el = el.Next() {
		out = append(out, el.Value.(*item[T]).value)
	}
	return out, nil
}

func (s *MemoryStore[T]) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Len()
}

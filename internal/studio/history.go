package studio

import "sync"

// History is a bounded, most-recent-first list. Pushing past the capacity
// evicts the oldest entry. It is safe for concurrent use.
type History[T any] struct {
	mu    sync.RWMutex
	items []T
	limit int
}

// NewHistory creates a history holding at most limit entries (minimum 1).
func NewHistory[T any](limit int) *History[T] {
	if limit < 1 {
		limit = 1
	}
	return &History[T]{limit: limit, items: make([]T, 0, limit)}
}

// Push prepends v. The value must be fully built before the call; it is
// committed as a single step.
func (h *History[T]) Push(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.items) == h.limit {
		h.items = h.items[:h.limit-1]
	}
	h.items = append(h.items, v)
	copy(h.items[1:], h.items[:len(h.items)-1])
	h.items[0] = v
}

// Items returns a copy of the entries, newest first.
func (h *History[T]) Items() []T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]T(nil), h.items...)
}

// Latest returns the newest entry.
func (h *History[T]) Latest() (T, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.items) == 0 {
		var zero T
		return zero, false
	}
	return h.items[0], true
}

// Find returns the newest entry matching fn.
func (h *History[T]) Find(fn func(T) bool) (T, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, v := range h.items {
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func (h *History[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.items)
}

func (h *History[T]) Cap() int { return h.limit }

package util

import "sync"

// History is a fixed-capacity ring buffer. Once full, appending a new
// entry evicts the oldest one. Safe for concurrent use.
type History[T any] struct {
	mu       sync.Mutex
	capacity int
	entries  []T
	start    int
	size     int
}

func NewHistory[T any](capacity int) *History[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &History[T]{
		capacity: capacity,
		entries:  make([]T, capacity),
	}
}

func (h *History[T]) Append(entry T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := (h.start + h.size) % h.capacity
	h.entries[idx] = entry
	if h.size < h.capacity {
		h.size++
	} else {
		h.start = (h.start + 1) % h.capacity
	}
}

// Snapshot returns all entries in insertion order, oldest first.
func (h *History[T]) Snapshot() []T {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]T, h.size)
	for i := 0; i < h.size; i++ {
		result[i] = h.entries[(h.start+i)%h.capacity]
	}
	return result
}

// Last returns the most recent entry, if any.
func (h *History[T]) Last() (entry T, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.size == 0 {
		return entry, false
	}
	return h.entries[(h.start+h.size-1)%h.capacity], true
}

func (h *History[T]) Size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

func (h *History[T]) Capacity() int {
	return h.capacity
}

func (h *History[T]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.start = 0
	h.size = 0
}

// Package queue provides a small mutex-guarded FIFO that can also be used as
// an ordered set of pending items.
package queue

import (
	"slices"
	"sync"
)

// Queue is a generic thread-safe FIFO of comparable items.
// Push appends unconditionally; Add only appends items not already queued,
// which makes the queue usable as an idempotent pending set.
type Queue[T comparable] struct {
	mu    sync.Mutex
	items []T
}

// New creates a new empty queue.
func New[T comparable]() *Queue[T] {
	return &Queue[T]{
		items: make([]T, 0),
	}
}

// Push appends items to the queue.
func (q *Queue[T]) Push(items ...T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, items...)
}

// Add appends item unless it is already queued. Returns true if it was added.
func (q *Queue[T]) Add(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if slices.Contains(q.items, item) {
		return false
	}
	q.items = append(q.items, item)
	return true
}

// Remove drops every occurrence of item. Returns true if anything was removed.
func (q *Queue[T]) Remove(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	q.items = slices.DeleteFunc(q.items, func(v T) bool { return v == item })
	return len(q.items) != n
}

// Contains reports whether item is queued.
func (q *Queue[T]) Contains(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Contains(q.items, item)
}

// Empty returns true if the queue has no items.
func (q *Queue[T]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear removes all items from the queue.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	clear(q.items)
	q.items = q.items[:0]
}

// GetAndEmpty returns all items in order and clears the queue.
func (q *Queue[T]) GetAndEmpty() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	result := q.items
	q.items = make([]T, 0, cap(q.items))
	return result
}

package cache

import (
	"maps"
	"slices"
	"sync"
)

// Memory is an unbounded in-memory Store guarded by a single mutex.
// Entries live until deleted; there is no TTL and no eviction.
type Memory[V any] struct {
	mu      sync.Mutex
	entries map[string][]V
}

// NewMemory creates an empty Memory store.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{entries: make(map[string][]V)}
}

// Set stores a copy of values so later mutation of the caller's slice is not visible.
func (m *Memory[V]) Set(key string, values []V) {
	owned := make([]V, len(values))
	copy(owned, values)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = owned
}

// Fetch returns a copy of the rows stored under key.
func (m *Memory[V]) Fetch(key string) ([]V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	values, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(values), true
}

// Keys returns the stored keys in sorted order.
func (m *Memory[V]) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.entries))
}

// Delete removes key.
func (m *Memory[V]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Purge removes all entries.
func (m *Memory[V]) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
}

// Len returns the number of stored keys.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

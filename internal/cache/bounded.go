package cache

import (
	"fmt"
	"slices"

	"github.com/maypok86/otter/v2"
)

// Bounded is a size-capped Store backed by otter's W-TinyLFU cache.
// Once full, the least valuable keys are evicted and re-fetched on next use.
//
// Unlike Memory, Bounded has no single lock: Keys iterates the live cache
// and may miss or include keys set or evicted concurrently, and Len is
// otter's estimate. Set, Fetch and Delete are still atomic per key.
type Bounded[V any] struct {
	cache *otter.Cache[string, []V]
}

// NewBounded creates a Bounded store holding at most maxSize keys.
func NewBounded[V any](maxSize int) (*Bounded[V], error) {
	c, err := otter.New[string, []V](&otter.Options[string, []V]{
		MaximumSize: maxSize,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Bounded[V]{cache: c}, nil
}

// Set stores a copy of values under key.
func (b *Bounded[V]) Set(key string, values []V) {
	owned := make([]V, len(values))
	copy(owned, values)
	b.cache.Set(key, owned)
}

// Fetch returns a copy of the rows stored under key.
func (b *Bounded[V]) Fetch(key string) ([]V, bool) {
	values, ok := b.cache.GetIfPresent(key)
	if !ok {
		return nil, false
	}
	return slices.Clone(values), true
}

// Keys returns the stored keys in sorted order. It is not a point-in-time
// snapshot under concurrent writes.
func (b *Bounded[V]) Keys() []string {
	keys := make([]string, 0, b.cache.EstimatedSize())
	for k := range b.cache.All() {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Delete removes key.
func (b *Bounded[V]) Delete(key string) {
	b.cache.Invalidate(key)
}

// Purge removes all entries.
func (b *Bounded[V]) Purge() {
	b.cache.InvalidateAll()
}

// Len returns the approximate number of stored keys.
func (b *Bounded[V]) Len() int {
	return b.cache.EstimatedSize()
}

// Package cache provides the read-through query cache that sits between the
// schedule handlers and the database.
package cache

import "fmt"

// Store is a keyed memo of query results. Each key maps to the full row set
// for that query; Set always replaces the whole set.
type Store[V any] interface {
	// Set stores an owned copy of values under key, replacing any prior entry.
	Set(key string, values []V)
	// Fetch returns the rows stored under key, or false if key is absent.
	Fetch(key string) ([]V, bool)
	// Keys returns a snapshot of the stored keys.
	Keys() []string
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string)
	// Purge removes every entry.
	Purge()
	// Len returns the number of stored keys.
	Len() int
}

// New returns an unbounded Memory store when maxSize is 0, otherwise a
// Bounded store holding at most maxSize keys.
func New[V any](maxSize int) (Store[V], error) {
	switch {
	case maxSize < 0:
		return nil, fmt.Errorf("cache max size must not be negative, got %d", maxSize)
	case maxSize == 0:
		return NewMemory[V](), nil
	default:
		return NewBounded[V](maxSize)
	}
}

package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc queries the source of record for the rows behind one key.
// An empty, nil-error result is a valid answer and is cached like any other.
type FetchFunc[V any] func(ctx context.Context) ([]V, error)

// FetchOrCompute returns the rows cached under key, or calls fetch once,
// stores its result and returns it. A failed fetch stores nothing.
//
// Concurrent misses on the same key each call fetch; the last Set wins.
// Use a Loader when misses should share one fetch.
func FetchOrCompute[V any](ctx context.Context, store Store[V], key string, fetch FetchFunc[V]) ([]V, error) {
	if values, ok := store.Fetch(key); ok {
		return values, nil
	}
	values, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	store.Set(key, values)
	return values, nil
}

// Observer receives cache outcome events. Implementations must be safe for
// concurrent use.
type Observer interface {
	CacheHit(cache string)
	CacheMiss(cache string)
	SourceFetch(cache string, elapsed time.Duration, err error)
}

// Loader is a named read-through cache over a Store. Concurrent misses on
// the same key are collapsed into a single fetch.
//
// Invalidate and Purge bump a generation counter. A fetch that started
// before the bump returns its rows to the callers already waiting on it but
// never stores them, so invalidated data cannot reappear in the cache.
type Loader[V any] struct {
	name     string
	store    Store[V]
	observer Observer // nil = no instrumentation

	mu    sync.Mutex // guards group, gen and store writes from flights
	group *singleflight.Group
	gen   uint64
}

// NewLoader returns a Loader that reads through store. observer may be nil.
func NewLoader[V any](name string, store Store[V], observer Observer) *Loader[V] {
	return &Loader[V]{name: name, store: store, observer: observer, group: &singleflight.Group{}}
}

// Name returns the cache name used in metrics and logs.
func (l *Loader[V]) Name() string { return l.name }

// Store returns the underlying store.
func (l *Loader[V]) Store() Store[V] { return l.store }

// Get returns the rows cached under key, fetching and storing them on a miss.
// Every caller not served from the store counts as a miss, including those
// that join a fetch already in flight.
//
// The fetch runs detached from ctx cancellation: if the caller gives up, Get
// returns ctx.Err() but the fetch completes and its result is still stored.
func (l *Loader[V]) Get(ctx context.Context, key string, fetch FetchFunc[V]) ([]V, error) {
	if values, ok := l.store.Fetch(key); ok {
		l.hit()
		return values, nil
	}
	l.miss()

	group, gen := l.flight()
	ch := group.DoChan(key, func() (any, error) {
		// Re-check: a concurrent flight may have stored the key after our miss.
		if values, ok := l.store.Fetch(key); ok {
			return values, nil
		}
		start := time.Now()
		values, err := fetch(context.WithoutCancel(ctx))
		l.fetched(time.Since(start), err)
		if err != nil {
			return nil, err
		}
		l.setIfCurrent(key, gen, values)
		return values, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		values := res.Val.([]V)
		if res.Shared {
			// Waiters share the flight's slice; hand each its own copy.
			return cloneRows(values), nil
		}
		return values, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate removes key so the next Get fetches it again. Fetches already
// in flight, for any key, still answer their waiters but store nothing.
func (l *Loader[V]) Invalidate(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.group.Forget(key)
	l.store.Delete(key)
}

// Purge removes every cached key and discards the results of every fetch
// in flight.
func (l *Loader[V]) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.group = &singleflight.Group{}
	l.store.Purge()
}

func (l *Loader[V]) flight() (*singleflight.Group, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.group, l.gen
}

// setIfCurrent stores values only if no invalidation happened since gen
// was read.
func (l *Loader[V]) setIfCurrent(key string, gen uint64, values []V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		return
	}
	l.store.Set(key, values)
}

func (l *Loader[V]) hit() {
	if l.observer != nil {
		l.observer.CacheHit(l.name)
	}
}

func (l *Loader[V]) miss() {
	if l.observer != nil {
		l.observer.CacheMiss(l.name)
	}
}

func (l *Loader[V]) fetched(elapsed time.Duration, err error) {
	if l.observer != nil {
		l.observer.SourceFetch(l.name, elapsed, err)
	}
}

func cloneRows[V any](values []V) []V {
	if values == nil {
		return nil
	}
	out := make([]V, len(values))
	copy(out, values)
	return out
}

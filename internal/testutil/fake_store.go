// Package testutil provides in-memory fakes shared by package tests.
package testutil

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"

	trainyard "github.com/eugener/trainyard/internal"
)

// FakeStore is an in-memory implementation of storage.Store for testing.
// It counts query calls so tests can tell cache hits from source fetches.
type FakeStore struct {
	mu     sync.RWMutex
	trains map[string][]string // name -> sorted times
	calls  map[string]int
	err    error
}

// NewFakeStore returns a FakeStore with no trains.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		trains: make(map[string][]string),
		calls:  make(map[string]int),
	}
}

// FailWith makes every subsequent query return err. Pass nil to recover.
func (s *FakeStore) FailWith(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Calls returns how many times the named query method ran.
func (s *FakeStore) Calls(method string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[method]
}

func (s *FakeStore) record(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
	return s.err
}

// --- ScheduleStore ---

// AddSchedule merges the schedule's times into the train.
func (s *FakeStore) AddSchedule(_ context.Context, sch *trainyard.Schedule) error {
	if err := s.record("AddSchedule"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	times := s.trains[sch.Train]
	for _, t := range sch.Times {
		if !slices.Contains(times, t) {
			times = append(times, t)
		}
	}
	sort.Strings(times)
	s.trains[sch.Train] = times
	return nil
}

// DeleteTrain removes a train.
func (s *FakeStore) DeleteTrain(_ context.Context, name string) error {
	if err := s.record("DeleteTrain"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trains[name]; !ok {
		return trainyard.ErrNotFound
	}
	delete(s.trains, name)
	return nil
}

// TrainsAt returns trains arriving at t.
func (s *FakeStore) TrainsAt(_ context.Context, t string) ([]trainyard.Arrival, error) {
	if err := s.record("TrainsAt"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trainsAtLocked(t), nil
}

// TimesFor returns the arrivals of one train.
func (s *FakeStore) TimesFor(_ context.Context, train string) ([]trainyard.Arrival, error) {
	if err := s.record("TimesFor"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []trainyard.Arrival{}
	for _, t := range s.trains[train] {
		out = append(out, trainyard.Arrival{Train: train, Time: t})
	}
	return out, nil
}

// NextSimultaneous mirrors the SQL store: first shared time after `after`,
// wrapping to the earliest shared time.
func (s *FakeStore) NextSimultaneous(_ context.Context, after string) ([]trainyard.Arrival, error) {
	if err := s.record("NextSimultaneous"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var shared []string
	for _, t := range s.timesLocked() {
		if len(s.trainsAtLocked(t)) >= 2 {
			shared = append(shared, t)
		}
	}
	if len(shared) == 0 {
		return []trainyard.Arrival{}, nil
	}
	pick := shared[0]
	for _, t := range shared {
		if t > after {
			pick = t
			break
		}
	}
	return s.trainsAtLocked(pick), nil
}

// ListTrains returns all train names.
func (s *FakeStore) ListTrains(context.Context) ([]string, error) {
	if err := s.record("ListTrains"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.trains)), nil
}

// ListTimes returns the distinct arrival times.
func (s *FakeStore) ListTimes(context.Context) ([]string, error) {
	if err := s.record("ListTimes"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timesLocked(), nil
}

// Ping always succeeds.
func (s *FakeStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *FakeStore) Close() error { return nil }

func (s *FakeStore) trainsAtLocked(t string) []trainyard.Arrival {
	out := []trainyard.Arrival{}
	for _, name := range slices.Sorted(maps.Keys(s.trains)) {
		if slices.Contains(s.trains[name], t) {
			out = append(out, trainyard.Arrival{Train: name, Time: t})
		}
	}
	return out
}

func (s *FakeStore) timesLocked() []string {
	seen := make(map[string]struct{})
	for _, times := range s.trains {
		for _, t := range times {
			seen[t] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Package app implements application-level services for the trainyard schedule service.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	trainyard "github.com/eugener/trainyard/internal"
	"github.com/eugener/trainyard/internal/cache"
	"github.com/eugener/trainyard/internal/storage"
	"github.com/eugener/trainyard/internal/telemetry"
)

// Cache names, used as metric labels.
const (
	CacheTrainsByTime     = "trains_by_time"
	CacheTimesByTrain     = "times_by_train"
	CacheNextSimultaneous = "next_simultaneous"
)

var tracer = telemetry.Tracer("github.com/eugener/trainyard/internal/app")

// ScheduleOpts configures a ScheduleService.
type ScheduleOpts struct {
	Store             storage.ScheduleStore
	MaxEntries        int            // per-cache key cap (0 = unbounded)
	InvalidateOnWrite bool           // drop affected keys when a schedule changes
	Observer          cache.Observer // nil = no cache metrics
}

// ScheduleService answers schedule queries through one read-through cache
// per query shape. Each cache is keyed by the normalized query parameter.
type ScheduleService struct {
	store             storage.ScheduleStore
	byTime            *cache.Loader[trainyard.Arrival]
	byTrain           *cache.Loader[trainyard.Arrival]
	next              *cache.Loader[trainyard.Arrival]
	invalidateOnWrite bool
}

// NewScheduleService returns a ScheduleService with empty caches.
func NewScheduleService(opts ScheduleOpts) (*ScheduleService, error) {
	newLoader := func(name string) (*cache.Loader[trainyard.Arrival], error) {
		st, err := cache.New[trainyard.Arrival](opts.MaxEntries)
		if err != nil {
			return nil, fmt.Errorf("%s cache: %w", name, err)
		}
		return cache.NewLoader(name, st, opts.Observer), nil
	}

	byTime, err := newLoader(CacheTrainsByTime)
	if err != nil {
		return nil, err
	}
	byTrain, err := newLoader(CacheTimesByTrain)
	if err != nil {
		return nil, err
	}
	next, err := newLoader(CacheNextSimultaneous)
	if err != nil {
		return nil, err
	}

	return &ScheduleService{
		store:             opts.Store,
		byTime:            byTime,
		byTrain:           byTrain,
		next:              next,
		invalidateOnWrite: opts.InvalidateOnWrite,
	}, nil
}

// TrainsAt returns the trains arriving at the given time of day.
// An empty result is cached and reported as ErrNotFound.
func (s *ScheduleService) TrainsAt(ctx context.Context, at string) ([]trainyard.Arrival, error) {
	key, err := trainyard.NormalizeTime(at)
	if err != nil {
		return nil, err
	}
	rows, err := s.byTime.Get(ctx, key, traced(CacheTrainsByTime, key, func(ctx context.Context) ([]trainyard.Arrival, error) {
		return s.store.TrainsAt(ctx, key)
	}))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no trains at %s: %w", key, trainyard.ErrNotFound)
	}
	return rows, nil
}

// TimesFor returns the arrival schedule of the named train.
func (s *ScheduleService) TimesFor(ctx context.Context, train string) (*trainyard.Schedule, error) {
	key, err := trainyard.NormalizeTrainName(train)
	if err != nil {
		return nil, err
	}
	rows, err := s.byTrain.Get(ctx, key, traced(CacheTimesByTrain, key, func(ctx context.Context) ([]trainyard.Arrival, error) {
		return s.store.TimesFor(ctx, key)
	}))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("train %s: %w", key, trainyard.ErrNotFound)
	}

	sch := &trainyard.Schedule{Train: key, Times: make([]string, len(rows))}
	for i, r := range rows {
		sch.Times[i] = r.Time
	}
	return sch, nil
}

// NextSimultaneous returns the next time after `after` at which two or more
// trains arrive together, wrapping to the following day when needed.
func (s *ScheduleService) NextSimultaneous(ctx context.Context, after string) (*trainyard.TimeSlot, error) {
	key, err := trainyard.NormalizeTime(after)
	if err != nil {
		return nil, err
	}
	rows, err := s.next.Get(ctx, key, traced(CacheNextSimultaneous, key, func(ctx context.Context) ([]trainyard.Arrival, error) {
		return s.store.NextSimultaneous(ctx, key)
	}))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no simultaneous arrivals: %w", trainyard.ErrNotFound)
	}

	na := &trainyard.TimeSlot{Time: rows[0].Time, Trains: make([]string, len(rows))}
	for i, r := range rows {
		na.Trains[i] = r.Train
	}
	return na, nil
}

// AddSchedule validates and stores a train schedule, returning the
// normalized form that was written.
func (s *ScheduleService) AddSchedule(ctx context.Context, in trainyard.Schedule) (*trainyard.Schedule, error) {
	sch, err := trainyard.NormalizeSchedule(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddSchedule(ctx, &sch); err != nil {
		return nil, fmt.Errorf("add schedule %s: %w", sch.Train, err)
	}

	if s.invalidateOnWrite {
		s.byTrain.Invalidate(sch.Train)
		for _, t := range sch.Times {
			s.byTime.Invalidate(t)
		}
		s.next.Purge()
	}
	slog.Info("schedule added", "train", sch.Train, "times", len(sch.Times))
	return &sch, nil
}

// DeleteTrain removes a train and all of its arrivals. Affected cache
// entries are dropped whether or not write invalidation is enabled.
func (s *ScheduleService) DeleteTrain(ctx context.Context, train string) error {
	name, err := trainyard.NormalizeTrainName(train)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTrain(ctx, name); err != nil {
		return fmt.Errorf("delete train %s: %w", name, err)
	}

	// The train's times are no longer known, so every time key goes.
	s.byTrain.Invalidate(name)
	s.byTime.Purge()
	s.next.Purge()
	slog.Info("train deleted", "train", name)
	return nil
}

// ListTrains returns all known train names. Not cached.
func (s *ScheduleService) ListTrains(ctx context.Context) ([]string, error) {
	return s.store.ListTrains(ctx)
}

// Warm loads the trains-by-time cache for every scheduled time and
// returns the number of keys loaded.
func (s *ScheduleService) Warm(ctx context.Context) (int, error) {
	times, err := s.store.ListTimes(ctx)
	if err != nil {
		return 0, fmt.Errorf("list times: %w", err)
	}
	for i, t := range times {
		if _, err := s.byTime.Get(ctx, t, traced(CacheTrainsByTime, t, func(ctx context.Context) ([]trainyard.Arrival, error) {
			return s.store.TrainsAt(ctx, t)
		})); err != nil {
			return i, fmt.Errorf("warm %s: %w", t, err)
		}
	}
	return len(times), nil
}

// Purge empties every query cache.
func (s *ScheduleService) Purge() {
	s.byTime.Purge()
	s.byTrain.Purge()
	s.next.Purge()
	slog.Info("query caches purged")
}

// CacheSizes returns the number of keys held by each query cache.
func (s *ScheduleService) CacheSizes() map[string]int {
	return map[string]int{
		s.byTime.Name():  s.byTime.Store().Len(),
		s.byTrain.Name(): s.byTrain.Store().Len(),
		s.next.Name():    s.next.Store().Len(),
	}
}

// traced wraps a source fetch in a span so cache misses show up in traces.
func traced(cacheName, key string, fetch cache.FetchFunc[trainyard.Arrival]) cache.FetchFunc[trainyard.Arrival] {
	return func(ctx context.Context) ([]trainyard.Arrival, error) {
		ctx, span := tracer.Start(ctx, "schedule.fetch", trace.WithAttributes(
			attribute.String("cache", cacheName),
			attribute.String("key", key),
		))
		defer span.End()

		rows, err := fetch(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		span.SetAttributes(attribute.Int("rows", len(rows)))
		return rows, nil
	}
}

// Package storage defines persistence interfaces for the schedule service.
package storage

import (
	"context"

	trainyard "github.com/eugener/trainyard/internal"
)

// ScheduleStore manages train schedule persistence. Query methods return
// rows ordered by train name then time, and an empty slice (not an error)
// when nothing matches.
type ScheduleStore interface {
	AddSchedule(ctx context.Context, s *trainyard.Schedule) error
	DeleteTrain(ctx context.Context, name string) error
	TrainsAt(ctx context.Context, t string) ([]trainyard.Arrival, error)
	TimesFor(ctx context.Context, train string) ([]trainyard.Arrival, error)
	NextSimultaneous(ctx context.Context, after string) ([]trainyard.Arrival, error)
	ListTrains(ctx context.Context) ([]string, error)
	ListTimes(ctx context.Context) ([]string, error)
}

// Store combines all storage interfaces.
type Store interface {
	ScheduleStore
	Ping(ctx context.Context) error
	Close() error
}

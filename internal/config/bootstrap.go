package config

import (
	"context"
	"fmt"
	"log/slog"

	trainyard "github.com/eugener/trainyard/internal"
	"github.com/eugener/trainyard/internal/storage"
)

// Bootstrap seeds the database with the schedules listed in the config file.
// Seeding is idempotent: existing trains keep their times and gain any new ones.
func Bootstrap(ctx context.Context, cfg *Config, store storage.ScheduleStore) error {
	for _, t := range cfg.Trains {
		sch, err := trainyard.NormalizeSchedule(trainyard.Schedule{Train: t.Name, Times: t.Times})
		if err != nil {
			return fmt.Errorf("seed train %q: %w", t.Name, err)
		}
		if err := store.AddSchedule(ctx, &sch); err != nil {
			return fmt.Errorf("seed train %s: %w", sch.Train, err)
		}
		slog.Info("bootstrapped train", "name", sch.Train, "times", len(sch.Times))
	}
	return nil
}

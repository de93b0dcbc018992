package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	trainyard "github.com/eugener/trainyard/internal"
)

// AddSchedule upserts the train and inserts its arrival times in one
// transaction. Times already on file are ignored, so re-submitting a
// schedule is idempotent.
func (s *Store) AddSchedule(ctx context.Context, sch *trainyard.Schedule) error {
	tx, err := s.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO trains (name, created_at) VALUES (?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		sch.Train, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert train: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO arrivals (train_name, arrival_time) VALUES (?, ?)
		 ON CONFLICT(train_name, arrival_time) DO NOTHING`,
	)
	if err != nil {
		return fmt.Errorf("prepare arrivals: %w", err)
	}
	defer stmt.Close()

	for _, t := range sch.Times {
		if _, err := stmt.ExecContext(ctx, sch.Train, t); err != nil {
			return fmt.Errorf("insert arrival %s: %w", t, err)
		}
	}
	return tx.Commit()
}

// DeleteTrain removes a train and, via cascade, all of its arrivals.
func (s *Store) DeleteTrain(ctx context.Context, name string) error {
	result, err := s.write.ExecContext(ctx, `DELETE FROM trains WHERE name=?`, name)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, "train")
}

// TrainsAt returns every train arriving at time t.
func (s *Store) TrainsAt(ctx context.Context, t string) ([]trainyard.Arrival, error) {
	return s.queryArrivals(ctx,
		`SELECT train_name, arrival_time FROM arrivals
		 WHERE arrival_time = ? ORDER BY train_name`, t,
	)
}

// TimesFor returns every arrival of the named train.
func (s *Store) TimesFor(ctx context.Context, train string) ([]trainyard.Arrival, error) {
	return s.queryArrivals(ctx,
		`SELECT train_name, arrival_time FROM arrivals
		 WHERE train_name = ? ORDER BY arrival_time`, train,
	)
}

// NextSimultaneous returns the trains arriving together at the earliest
// shared time strictly after `after`. When no shared time remains that day
// it wraps to the first shared time of the next day.
func (s *Store) NextSimultaneous(ctx context.Context, after string) ([]trainyard.Arrival, error) {
	return s.queryArrivals(ctx,
		`WITH shared AS (
		     SELECT arrival_time FROM arrivals
		     GROUP BY arrival_time HAVING COUNT(*) >= 2
		 ),
		 next AS (
		     SELECT COALESCE(
		         (SELECT MIN(arrival_time) FROM shared WHERE arrival_time > ?),
		         (SELECT MIN(arrival_time) FROM shared)
		     ) AS t
		 )
		 SELECT a.train_name, a.arrival_time
		 FROM arrivals a JOIN next ON a.arrival_time = next.t
		 ORDER BY a.train_name`, after,
	)
}

// ListTrains returns all train names in order.
func (s *Store) ListTrains(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, `SELECT name FROM trains ORDER BY name`)
}

// ListTimes returns the distinct arrival times on file in order.
func (s *Store) ListTimes(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, `SELECT DISTINCT arrival_time FROM arrivals ORDER BY arrival_time`)
}

func (s *Store) queryArrivals(ctx context.Context, query string, args ...any) ([]trainyard.Arrival, error) {
	rows, err := s.read.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	arrivals := []trainyard.Arrival{}
	for rows.Next() {
		var a trainyard.Arrival
		if err := rows.Scan(&a.Train, &a.Time); err != nil {
			return nil, err
		}
		arrivals = append(arrivals, a)
	}
	return arrivals, rows.Err()
}

func (s *Store) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := s.read.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v.String)
	}
	return out, rows.Err()
}

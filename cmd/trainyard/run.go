package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eugener/trainyard/internal/app"
	"github.com/eugener/trainyard/internal/config"
	"github.com/eugener/trainyard/internal/server"
	"github.com/eugener/trainyard/internal/storage/sqlite"
	"github.com/eugener/trainyard/internal/telemetry"
	"github.com/eugener/trainyard/internal/worker"
)

// migrate opens the database, which applies pending migrations, seeds the
// configured schedules and exits.
func migrate(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	store, err := sqlite.New(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := config.Bootstrap(ctx, cfg, store); err != nil {
		return err
	}
	schemaVersion, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	slog.Info("database ready", "dsn", cfg.Database.DSN, "schema_version", schemaVersion, "seeded_trains", len(cfg.Trains))
	return nil
}

func run(ctx context.Context, configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	slog.Info("starting trainyard", "version", version, "addr", cfg.Server.Addr)

	// Open database
	store, err := sqlite.New(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	// Bootstrap from config
	if err := config.Bootstrap(ctx, cfg, store); err != nil {
		return err
	}

	// Tracing
	if cfg.Telemetry.Tracing.Enabled {
		shutdown, err := telemetry.SetupTracing(ctx, telemetry.TracingOptions{
			Endpoint:       cfg.Telemetry.Tracing.Endpoint,
			SampleRate:     cfg.Telemetry.Tracing.SampleRate,
			ServiceVersion: version,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("tracer shutdown", "error", err)
			}
		}()
		slog.Info("tracing enabled", "endpoint", cfg.Telemetry.Tracing.Endpoint)
	}

	// Metrics
	var (
		metrics        *telemetry.Metrics
		metricsHandler http.Handler
	)
	if cfg.Telemetry.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = telemetry.NewMetrics(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	// Wire services
	opts := app.ScheduleOpts{
		Store:             store,
		MaxEntries:        cfg.Cache.MaxSize,
		InvalidateOnWrite: cfg.Cache.InvalidateOnWrite,
	}
	if metrics != nil {
		opts.Observer = metrics
	}
	schedules, err := app.NewScheduleService(opts)
	if err != nil {
		return err
	}

	// Background workers
	var workers []worker.Worker
	if cfg.Cache.WarmOnStart {
		workers = append(workers, worker.NewCacheWarmer(schedules))
	}
	if metrics != nil {
		workers = append(workers, worker.NewCacheGauge(schedules, metrics, cfg.Cache.GaugeInterval))
	}
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	var workerErr chan error // nil when there is nothing to run
	if len(workers) > 0 {
		workerErr = make(chan error, 1)
		go func() { workerErr <- worker.NewRunner(workers...).Run(workerCtx) }()
	}

	// Create HTTP server
	deps := server.Deps{
		Schedules:      schedules,
		ReadyCheck:     store.Ping,
		Metrics:        metrics,
		MetricsHandler: metricsHandler,
	}
	if len(cfg.CORS.AllowedOrigins) > 0 {
		deps.CORS = &server.CORSOptions{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowCredentials: cfg.CORS.AllowCredentials,
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	slog.Info("trainyard ready", "addr", cfg.Server.Addr,
		"cache_max_size", cfg.Cache.MaxSize,
		"invalidate_on_write", cfg.Cache.InvalidateOnWrite,
	)

	// Wait for signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig)
	case <-ctx.Done():
		slog.Info("shutting down", "reason", ctx.Err())
	case err := <-errCh:
		return err
	case err := <-workerErr:
		// Workers only return early on failure.
		if err != nil {
			return err
		}
	}

	// Shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	stopWorkers()

	slog.Info("trainyard stopped")
	return nil
}

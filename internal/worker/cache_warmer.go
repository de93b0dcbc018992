package worker

import (
	"context"
	"log/slog"
	"time"
)

// Warmer pre-populates query caches from the source of record.
type Warmer interface {
	Warm(ctx context.Context) (int, error)
}

// CacheWarmer loads the query caches once at startup, then idles until
// shutdown. A failed warm-up is logged, not fatal: the caches fill on demand.
type CacheWarmer struct {
	warmer Warmer
}

// NewCacheWarmer creates a warmer over w.
func NewCacheWarmer(w Warmer) *CacheWarmer {
	return &CacheWarmer{warmer: w}
}

// Name returns the worker identifier.
func (w *CacheWarmer) Name() string { return "cache_warmer" }

// Run warms the caches and blocks until ctx is cancelled.
func (w *CacheWarmer) Run(ctx context.Context) error {
	start := time.Now()
	n, err := w.warmer.Warm(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("cache warm-up failed", "loaded", n, "error", err)
		}
	} else {
		slog.Info("caches warmed", "keys", n, "duration_ms", time.Since(start).Milliseconds())
	}

	<-ctx.Done()
	return nil
}

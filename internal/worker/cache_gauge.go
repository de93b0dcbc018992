package worker

import (
	"context"
	"time"
)

const defaultGaugeInterval = 15 * time.Second

// SizeReporter reports the entry count of each named cache.
type SizeReporter interface {
	CacheSizes() map[string]int
}

// EntriesGauge records a cache's entry count.
type EntriesGauge interface {
	SetCacheEntries(cache string, n int)
}

// CacheGauge periodically publishes cache sizes to a gauge.
type CacheGauge struct {
	caches   SizeReporter
	gauge    EntriesGauge
	interval time.Duration
}

// NewCacheGauge creates a gauge worker. A non-positive interval uses 15s.
func NewCacheGauge(caches SizeReporter, gauge EntriesGauge, interval time.Duration) *CacheGauge {
	if interval <= 0 {
		interval = defaultGaugeInterval
	}
	return &CacheGauge{caches: caches, gauge: gauge, interval: interval}
}

// Name returns the worker identifier.
func (g *CacheGauge) Name() string { return "cache_gauge" }

// Run publishes sizes immediately and then on every tick until ctx is cancelled.
func (g *CacheGauge) Run(ctx context.Context) error {
	g.publish()

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			g.publish()
		}
	}
}

func (g *CacheGauge) publish() {
	for name, n := range g.caches.CacheSizes() {
		g.gauge.SetCacheEntries(name, n)
	}
}

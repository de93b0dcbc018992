// Package telemetry provides observability primitives for the trainyard service.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ActiveRequests  prometheus.Gauge
	CacheHits       *prometheus.CounterVec
	CacheMisses     *prometheus.CounterVec
	CacheEntries    *prometheus.GaugeVec
	SourceDuration  *prometheus.HistogramVec
	SourceErrors    *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trainyard",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:                       "trainyard",
			Name:                            "request_duration_seconds",
			Help:                            "HTTP request duration in seconds.",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 0,
		}, []string{"method", "path"}),

		ActiveRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "trainyard",
			Name:      "active_requests",
			Help:      "Number of currently active requests.",
		}),

		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trainyard",
			Name:      "cache_hits_total",
			Help:      "Total query cache hits.",
		}, []string{"cache"}),

		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trainyard",
			Name:      "cache_misses_total",
			Help:      "Total query cache lookups not served from the cache, including callers that joined an in-flight fetch.",
		}, []string{"cache"}),

		CacheEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "trainyard",
			Name:      "cache_entries",
			Help:      "Number of keys held by each query cache.",
		}, []string{"cache"}),

		SourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:                       "trainyard",
			Name:                            "source_fetch_duration_seconds",
			Help:                            "Database fetch duration on cache miss, in seconds.",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 0,
		}, []string{"cache"}),

		SourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trainyard",
			Name:      "source_fetch_errors_total",
			Help:      "Total failed database fetches on cache miss.",
		}, []string{"cache"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ActiveRequests,
		m.CacheHits,
		m.CacheMisses,
		m.CacheEntries,
		m.SourceDuration,
		m.SourceErrors,
	)

	return m
}

// CacheHit implements cache.Observer.
func (m *Metrics) CacheHit(cache string) {
	m.CacheHits.WithLabelValues(cache).Inc()
}

// CacheMiss implements cache.Observer.
func (m *Metrics) CacheMiss(cache string) {
	m.CacheMisses.WithLabelValues(cache).Inc()
}

// SourceFetch implements cache.Observer.
func (m *Metrics) SourceFetch(cache string, elapsed time.Duration, err error) {
	m.SourceDuration.WithLabelValues(cache).Observe(elapsed.Seconds())
	if err != nil {
		m.SourceErrors.WithLabelValues(cache).Inc()
	}
}

// SetCacheEntries records the current key count of a cache.
func (m *Metrics) SetCacheEntries(cache string, n int) {
	m.CacheEntries.WithLabelValues(cache).Set(float64(n))
}

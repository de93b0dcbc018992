package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	m := NewMetrics(reg)

	if m.RequestsTotal == nil {
		t.Error("RequestsTotal is nil")
	}
	if m.RequestDuration == nil {
		t.Error("RequestDuration is nil")
	}
	if m.ActiveRequests == nil {
		t.Error("ActiveRequests is nil")
	}
	if m.CacheHits == nil {
		t.Error("CacheHits is nil")
	}
	if m.CacheMisses == nil {
		t.Error("CacheMisses is nil")
	}
	if m.CacheEntries == nil {
		t.Error("CacheEntries is nil")
	}
	if m.SourceDuration == nil {
		t.Error("SourceDuration is nil")
	}
	if m.SourceErrors == nil {
		t.Error("SourceErrors is nil")
	}

	// Gauges and counters register without label values so Gather succeeds.
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("Gather: %v", err)
	}
}

func TestCacheObserver(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	m := NewMetrics(reg)

	m.CacheHit("trains_by_time")
	m.CacheHit("trains_by_time")
	m.CacheMiss("trains_by_time")
	m.SourceFetch("trains_by_time", 3*time.Millisecond, nil)
	m.SourceFetch("times_by_train", time.Millisecond, errors.New("boom"))
	m.SetCacheEntries("trains_by_time", 7)

	if got := testutil.ToFloat64(m.CacheHits.WithLabelValues("trains_by_time")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CacheMisses.WithLabelValues("trains_by_time")); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SourceErrors.WithLabelValues("times_by_train")); got != 1 {
		t.Errorf("source errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheEntries.WithLabelValues("trains_by_time")); got != 7 {
		t.Errorf("entries = %v, want 7", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather after increment: %v", err)
	}

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	want := []string{
		"trainyard_cache_hits_total",
		"trainyard_cache_misses_total",
		"trainyard_cache_entries",
		"trainyard_source_fetch_duration_seconds",
		"trainyard_source_fetch_errors_total",
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("missing metric %q in gathered families", name)
		}
	}
}

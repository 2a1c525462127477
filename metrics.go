package offheap

import (
	"fmt"
	"sync/atomic"
	"time"
)

// GrowthEvent identifies which backing region of a collection was replaced.
type GrowthEvent int

const (
	// GrowArray is an Array slot region growth (doubling or Reserve).
	GrowArray GrowthEvent = iota
	// GrowSet is a Set resize with full rehash.
	GrowSet
	// GrowMapPool is a Map entry pool doubling.
	GrowMapPool
	// GrowMapBuckets is a Map bucket doubling with relinking.
	GrowMapBuckets
)

func (e GrowthEvent) String() string {
	switch e {
	case GrowArray:
		return "array"
	case GrowSet:
		return "set_rehash"
	case GrowMapPool:
		return "map_pool"
	case GrowMapBuckets:
		return "map_buckets"
	default:
		return fmt.Sprintf("GrowthEvent(%d)", int(e))
	}
}

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    grows *prometheus.CounterVec
//	}
//
//	func (p *PrometheusCollector) RecordGrow(event offheap.GrowthEvent, from, to int, d time.Duration, err error) {
//	    p.grows.WithLabelValues(event.String()).Inc()
//	}
type MetricsCollector interface {
	// RecordGrow is called after every attempt to replace a backing region.
	// from and to are capacities in elements (buckets for GrowMapBuckets),
	// err is nil if successful.
	RecordGrow(event GrowthEvent, from, to int, duration time.Duration, err error)

	// RecordRelease is called once when a collection is closed with the
	// number of bytes returned to the system.
	RecordRelease(bytes uint64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGrow(GrowthEvent, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRelease(uint64)                                   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
// It is safe to share between collections used on different goroutines.
type BasicMetricsCollector struct {
	ArrayGrows     atomic.Int64
	SetRehashes    atomic.Int64
	MapPoolGrows   atomic.Int64
	MapBucketGrows atomic.Int64
	GrowErrors     atomic.Int64
	GrowTotalNanos atomic.Int64
	Releases       atomic.Int64
	ReleasedBytes  atomic.Int64
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(event GrowthEvent, from, to int, duration time.Duration, err error) {
	if err != nil {
		b.GrowErrors.Add(1)
		return
	}
	switch event {
	case GrowArray:
		b.ArrayGrows.Add(1)
	case GrowSet:
		b.SetRehashes.Add(1)
	case GrowMapPool:
		b.MapPoolGrows.Add(1)
	case GrowMapBuckets:
		b.MapBucketGrows.Add(1)
	}
	b.GrowTotalNanos.Add(duration.Nanoseconds())
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(bytes uint64) {
	b.Releases.Add(1)
	b.ReleasedBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ArrayGrows:     b.ArrayGrows.Load(),
		SetRehashes:    b.SetRehashes.Load(),
		MapPoolGrows:   b.MapPoolGrows.Load(),
		MapBucketGrows: b.MapBucketGrows.Load(),
		GrowErrors:     b.GrowErrors.Load(),
		GrowAvgNanos:   b.getAvgGrowNanos(),
		Releases:       b.Releases.Load(),
		ReleasedBytes:  b.ReleasedBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgGrowNanos() int64 {
	count := b.ArrayGrows.Load() + b.SetRehashes.Load() + b.MapPoolGrows.Load() + b.MapBucketGrows.Load()
	if count == 0 {
		return 0
	}
	return b.GrowTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ArrayGrows     int64
	SetRehashes    int64
	MapPoolGrows   int64
	MapBucketGrows int64
	GrowErrors     int64
	GrowAvgNanos   int64
	Releases       int64
	ReleasedBytes  int64
}

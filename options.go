package offheap

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/offheap/internal/arena"
	"github.com/hupe1980/offheap/resource"
)

// Backend selects where a collection's memory comes from.
type Backend int

const (
	// BackendMmap keeps slots in anonymous memory mappings outside the Go heap (default).
	BackendMmap Backend = iota
	// BackendHeap keeps slots in aligned Go byte slices. The slots contain no
	// pointers, so the collector never scans them, but they count towards the
	// heap size that paces garbage collection.
	BackendHeap
)

func (b Backend) String() string {
	return b.arena().String()
}

func (b Backend) arena() arena.Backend {
	if b == BackendHeap {
		return arena.BackendHeap
	}
	return arena.BackendMmap
}

type options struct {
	initialCapacity int
	capacitySet     bool
	entryPoolSize   int
	poolSizeSet     bool
	hasher          Hasher
	backend         Backend
	controller      *resource.Controller
	metrics         MetricsCollector
	logger          *Logger
}

// Option configures a collection constructor.
type Option func(*options)

// WithInitialCapacity sets the initial slot count.
//
// For Array it is the exact capacity. For Set it is the slot count and for
// Map the bucket count; both are rounded up to a power of two, and a Set
// never starts with fewer than 4 slots. n must be positive.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		o.initialCapacity = n
		o.capacitySet = true
	}
}

// WithEntryPoolSize sets the initial number of Map entries allocated before
// the pool has to grow. n must be positive. Ignored by Array and Set.
func WithEntryPoolSize(n int) Option {
	return func(o *options) {
		o.entryPoolSize = n
		o.poolSizeSet = true
	}
}

// WithHasher selects the key hash used by Set and Map. Ignored by Array.
func WithHasher(h Hasher) Option {
	return func(o *options) {
		o.hasher = h
	}
}

// WithBackend selects where slots are allocated.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithMemoryLimit caps the memory of a single collection at limit bytes.
// Growth that would exceed it fails with ErrAllocationFailed wrapping
// ErrMemoryLimitExceeded. Use WithResourceController to share a limit.
func WithMemoryLimit(limit int64) Option {
	return func(o *options) {
		o.controller = resource.NewController(resource.Config{MemoryLimitBytes: limit})
	}
}

// WithResourceController accounts every allocation against rc.
// A single controller may be shared by many collections.
//
// Example:
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 30})
//	ids, _ := offheap.NewSet(offheap.WithResourceController(rc))
//	idx, _ := offheap.NewMap(offheap.WithResourceController(rc))
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithMetricsCollector configures a metrics collector for growth and release events.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &offheap.BasicMetricsCollector{}
//	m, _ := offheap.NewMap(offheap.WithMetricsCollector(metrics))
//	// ... use m ...
//	stats := metrics.GetStats()
//	fmt.Printf("Bucket grows: %d, Avg latency: %dns\n", stats.MapBucketGrows, stats.GrowAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithLogger configures structured logging for growth and release.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := offheap.NewJSONLogger(slog.LevelDebug)
//	arr, _ := offheap.NewArray(offheap.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		hasher:  HasherMix64,
		backend: BackendMmap,
		metrics: NoopMetricsCollector{},
		logger:  NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// capacity returns the configured initial capacity or def when unset.
func (o *options) capacity(def int) (int, error) {
	if !o.capacitySet {
		return def, nil
	}
	if o.initialCapacity <= 0 {
		return 0, fmt.Errorf("%w: initial capacity %d", ErrInvalidCapacity, o.initialCapacity)
	}
	return o.initialCapacity, nil
}

// poolSize returns the configured entry pool size or def when unset.
func (o *options) poolSize(def int) (int, error) {
	if !o.poolSizeSet {
		return def, nil
	}
	if o.entryPoolSize <= 0 {
		return 0, fmt.Errorf("%w: entry pool size %d", ErrInvalidCapacity, o.entryPoolSize)
	}
	return o.entryPoolSize, nil
}

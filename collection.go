package offheap

import (
	"time"

	"github.com/hupe1980/offheap/internal/arena"
	"github.com/hupe1980/offheap/internal/mmap"
)

// core is the lifecycle shared by Array, Set and Map: one arena owned
// exclusively by the collection and observability hooks. The collection is
// closed exactly when its arena is released.
type core struct {
	arena   *arena.Arena
	backend Backend
	logger  *Logger
	metrics MetricsCollector
}

func newCore(structure string, o options, pattern mmap.AccessPattern) core {
	opts := []arena.Option{
		arena.WithBackend(o.backend.arena()),
		arena.WithAccessPattern(pattern),
	}
	if o.controller != nil {
		opts = append(opts, arena.WithMemoryAcquirer(o.controller))
	}
	return core{
		arena:   arena.New(opts...),
		backend: o.backend,
		logger:  o.logger.WithStructure(structure),
		metrics: o.metrics,
	}
}

func (c *core) closed() bool {
	return c.arena.Released()
}

func (c *core) ensureOpen() error {
	if c.closed() {
		return ErrClosed
	}
	return nil
}

// observeGrow reports a region replacement that started at start.
func (c *core) observeGrow(event GrowthEvent, from, to int, start time.Time, err error) {
	c.metrics.RecordGrow(event, from, to, time.Since(start), err)
	c.logger.LogGrow(event, from, to, err)
}

func (c *core) memoryStats() MemoryStats {
	return memoryStats(c.backend, c.arena.Stats())
}

// release frees the arena. Only the first call has any effect.
func (c *core) release() error {
	if c.closed() {
		return nil
	}

	stats := c.arena.Stats()
	err := c.arena.ReleaseAll()
	c.metrics.RecordRelease(stats.BytesReserved)
	c.logger.LogRelease(stats.Regions, stats.BytesReserved, err)
	return err
}

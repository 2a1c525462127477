// Package offheap provides int64 collections whose storage lives outside the
// Go garbage-collected heap.
//
// Large Go maps and slices of small records make every collection cycle scan
// or at least account for their memory. The collections in this package keep
// their slots in anonymous memory mappings owned by a per-collection arena, so
// the collector never sees them and pause times stay flat no matter how many
// elements are stored.
//
// # Collections
//
//	Array  growable array, doubling on overflow
//	Set    open-addressing hash set with linear probing and tombstones
//	Map    separate-chaining hash map with a bump-allocated entry pool
//
// Keys and values are int64 only.
//
// # Quick Start
//
//	m, err := offheap.NewMap()
//	if err != nil {
//		return err
//	}
//	defer m.Close()
//
//	_ = m.Put(42, 7)
//	v, ok, _ := m.Get(42) // 7, true
//
// # Lifecycle
//
// Every collection must be closed. Close returns all of its memory at once and
// is idempotent; any other method called afterwards returns ErrClosed. There
// are no finalizers: a collection that is never closed leaks its mappings.
//
// Growth allocates the new region, copies, and only then frees the old one. A
// failed allocation returns an error wrapping ErrAllocationFailed and leaves
// the collection exactly as it was.
//
// # Memory Budget
//
// WithMemoryLimit caps a single collection. WithResourceController accounts
// several collections against one shared resource.Controller:
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 30})
//	ids, _ := offheap.NewSet(offheap.WithResourceController(rc))
//	idx, _ := offheap.NewMap(offheap.WithResourceController(rc))
//
// # Backends
//
// BackendMmap (default) maps anonymous pages from the operating system.
// BackendHeap uses aligned Go byte slices instead; the slots contain no
// pointers, so they are never scanned, but they still count towards the heap
// target.
//
// # Concurrency
//
// Collections are not safe for concurrent use. resource.Controller and
// BasicMetricsCollector may be shared between goroutines.
package offheap

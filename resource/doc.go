// Package resource provides a memory budget shared by off-heap collections.
//
// Every byte a collection maps is acquired from a Controller before the
// mapping is created and released when the region is freed. Several
// collections, possibly owned by different goroutines, can share one
// Controller to cap their combined footprint:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	arr, _ := offheap.NewArray(offheap.WithResourceController(rc))
//	set, _ := offheap.NewSet(offheap.WithResourceController(rc))
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and atomic counters
// for usage tracking. AcquireMemory is non-blocking and returns immediately
// with ErrMemoryLimitExceeded if the limit would be exceeded.
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource

// Package arena provides the off-heap region allocator behind every collection.
//
// An Arena hands out zero-filled byte regions sized and aligned to request
// and frees every outstanding region exactly once when ReleaseAll is called.
// It is the only place in the module that obtains memory from the system.
//
// # Features
//
//   - Off-heap allocation via anonymous mmap (no GC scanning, no GC pressure)
//   - Optional heap backend with cache-line alignment for small tables
//   - Memory budgeting through a MemoryAcquirer (see package resource)
//   - Typed views (View, AllocSlice) over regions for pointer-free element types
//   - Pool, a growable bump allocator of fixed-size records addressed by index
//
// # Safety
//
// Regions returned by an Arena must only be viewed as slices of element types
// that contain no Go pointers: the garbage collector does not scan mapped
// memory. Owners reference records by integer index, never by address, so a
// region can be replaced by a larger copy without dangling references.
//
// An Arena is not safe for concurrent use; each collection owns its own.
package arena

package offheap

import "github.com/hupe1980/offheap/internal/arena"

// MemoryStats describes the memory a collection currently holds.
type MemoryStats struct {
	Backend        Backend
	Regions        int    // live backing regions
	BytesReserved  uint64 // bytes held from the system (page-rounded for BackendMmap)
	BytesRequested uint64 // bytes the slot arrays actually need
	TotalAllocs    uint64 // regions allocated since creation
	TotalFrees     uint64 // regions freed since creation
}

func memoryStats(b Backend, s arena.Stats) MemoryStats {
	return MemoryStats{
		Backend:        b,
		Regions:        s.Regions,
		BytesReserved:  s.BytesReserved,
		BytesRequested: s.BytesRequested,
		TotalAllocs:    s.TotalAllocs,
		TotalFrees:     s.TotalFrees,
	}
}

// ArrayStats is a snapshot of an Array.
type ArrayStats struct {
	Len    int
	Cap    int
	Memory MemoryStats
}

// SetStats is a snapshot of a Set.
type SetStats struct {
	Len        int
	Cap        int
	Tombstones int // DELETED slots waiting for the next resize
	Memory     MemoryStats
}

// MapStats is a snapshot of a Map.
//
// PoolUsed counts every entry handed out since creation or the last Clear,
// including entries unlinked by Remove, so PoolUsed >= Len.
type MapStats struct {
	Len      int
	Buckets  int
	PoolSize int
	PoolUsed int
	Memory   MemoryStats
}

package arena

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/hupe1980/offheap/internal/conv"
	"github.com/hupe1980/offheap/internal/mem"
	"github.com/hupe1980/offheap/internal/mmap"
)

// MemoryAcquirer is an interface for acquiring memory.
type MemoryAcquirer interface {
	AcquireMemory(amount int64) error
	ReleaseMemory(amount int64)
}

var (
	// ErrAllocationFailed is returned when the backend or the memory budget
	// cannot satisfy a request.
	ErrAllocationFailed = errors.New("arena: allocation failed")
	// ErrReleased is returned when allocating from an arena after ReleaseAll.
	ErrReleased = errors.New("arena: released")
	// ErrInvalidRequest is returned for non-positive sizes or bad alignments.
	ErrInvalidRequest = errors.New("arena: invalid allocation request")
)

// Backend selects where regions come from.
type Backend int

const (
	// BackendMmap maps each region as anonymous memory outside the Go heap.
	BackendMmap Backend = iota
	// BackendHeap allocates each region as an aligned Go byte slice.
	BackendHeap
)

func (b Backend) String() string {
	switch b {
	case BackendMmap:
		return "mmap"
	case BackendHeap:
		return "heap"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// Stats tracks arena memory usage metrics.
//
// Note on semantics:
//   - BytesReserved: memory currently held from the backend (page-rounded for mmap)
//   - BytesRequested: bytes currently requested by live regions (before rounding)
//   - Regions: live region count
//   - TotalAllocs / TotalFrees: cumulative counts
type Stats struct {
	Regions        int
	BytesReserved  uint64
	BytesRequested uint64
	TotalAllocs    uint64
	TotalFrees     uint64
}

// Region is one allocation owned by an Arena.
type Region struct {
	data     []byte
	mapping  *mmap.Mapping
	reserved int
	freed    bool
}

// Bytes returns the region memory. It is nil once the region is freed.
func (r *Region) Bytes() []byte {
	if r == nil || r.freed {
		return nil
	}
	return r.data
}

// Size returns the requested size of the region in bytes.
func (r *Region) Size() int {
	return len(r.data)
}

// Arena is an off-heap region allocator.
type Arena struct {
	backend  Backend
	pattern  mmap.AccessPattern
	acquirer MemoryAcquirer
	regions  map[*Region]struct{}
	released bool
	stats    Stats
}

// Option is a configuration option for Arena.
type Option func(*Arena)

// WithBackend selects the region backend.
func WithBackend(b Backend) Option {
	return func(a *Arena) {
		a.backend = b
	}
}

// WithMemoryAcquirer sets the memory acquirer for the arena.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(a *Arena) {
		a.acquirer = acquirer
	}
}

// WithAccessPattern sets the kernel hint applied to every mapped region.
func WithAccessPattern(p mmap.AccessPattern) Option {
	return func(a *Arena) {
		a.pattern = p
	}
}

// New creates an empty Arena.
func New(opts ...Option) *Arena {
	a := &Arena{
		backend: BackendMmap,
		regions: make(map[*Region]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MaxAlignment returns the largest alignment Allocate accepts.
func (a *Arena) MaxAlignment() int {
	if a.backend == BackendHeap {
		return mem.Alignment
	}
	return mmap.PageSize()
}

// Allocate returns a zero-filled region of exactly size bytes whose first byte
// is aligned to align. The arena is unchanged when an error is returned.
func (a *Arena) Allocate(size, align int) (*Region, error) {
	if a.released {
		return nil, ErrReleased
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidRequest, size)
	}
	if align <= 0 || bits.OnesCount(uint(align)) != 1 || align > a.MaxAlignment() {
		return nil, fmt.Errorf("%w: alignment %d", ErrInvalidRequest, align)
	}

	reserved := size
	if a.backend == BackendMmap {
		page := mmap.PageSize()
		if size > math.MaxInt-page {
			return nil, fmt.Errorf("%w: size %d: %w", ErrAllocationFailed, size, conv.ErrOverflow)
		}
		reserved = (size + page - 1) &^ (page - 1)
	}
	reservedBytes, err := conv.IntToUint64(reserved)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}

	if a.acquirer != nil {
		if err := a.acquirer.AcquireMemory(int64(reserved)); err != nil {
			return nil, fmt.Errorf("%w: %d bytes: %w", ErrAllocationFailed, reserved, err)
		}
	}

	r, err := a.allocRegion(size, align, reserved)
	if err != nil {
		if a.acquirer != nil {
			a.acquirer.ReleaseMemory(int64(reserved))
		}
		return nil, fmt.Errorf("%w: %d bytes: %w", ErrAllocationFailed, reserved, err)
	}

	a.regions[r] = struct{}{}
	a.stats.Regions++
	a.stats.TotalAllocs++
	a.stats.BytesReserved += reservedBytes
	a.stats.BytesRequested += uint64(r.Size())

	return r, nil
}

func (a *Arena) allocRegion(size, align, reserved int) (*Region, error) {
	if a.backend == BackendHeap {
		data := mem.AllocAligned(size, align)
		if data == nil || !mem.IsAligned(data, align) {
			return nil, fmt.Errorf("heap allocation of %d bytes (align %d)", size, align)
		}
		return &Region{data: data, reserved: reserved}, nil
	}

	mapping, err := mmap.MapAnon(reserved)
	if err != nil {
		return nil, err
	}
	if a.pattern != mmap.AccessDefault {
		// Advisory only; a rejected hint does not make the region unusable.
		_ = mapping.Advise(a.pattern)
	}

	return &Region{
		data:     mapping.Bytes()[:size:size],
		mapping:  mapping,
		reserved: mapping.Size(),
	}, nil
}

// Free releases a single region before the arena itself is released.
// Freeing a region twice, or a nil region, is a no-op.
func (a *Arena) Free(r *Region) error {
	if r == nil || r.freed {
		return nil
	}
	if _, ok := a.regions[r]; !ok {
		return fmt.Errorf("%w: region not owned by this arena", ErrInvalidRequest)
	}
	delete(a.regions, r)
	return a.free(r)
}

func (a *Arena) free(r *Region) error {
	r.freed = true

	a.stats.BytesRequested -= uint64(r.Size())

	var err error
	if r.mapping != nil {
		err = r.mapping.Close()
	}
	r.data = nil
	r.mapping = nil

	if a.acquirer != nil {
		a.acquirer.ReleaseMemory(int64(r.reserved))
	}

	a.stats.Regions--
	a.stats.TotalFrees++
	a.stats.BytesReserved -= uint64(r.reserved)
	return err
}

// ReleaseAll frees every outstanding region. After ReleaseAll every region
// obtained from the arena is invalid and Allocate returns ErrReleased.
// Calling ReleaseAll again is a no-op.
func (a *Arena) ReleaseAll() error {
	if a.released {
		return nil
	}
	a.released = true

	var errs []error
	for r := range a.regions {
		if err := a.free(r); err != nil {
			errs = append(errs, err)
		}
	}
	clear(a.regions)

	return errors.Join(errs...)
}

// Released reports whether ReleaseAll has been called.
func (a *Arena) Released() bool {
	return a.released
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	return a.stats
}

func (a *Arena) String() string {
	return fmt.Sprintf(
		"Arena{backend: %s, pattern: %s, regions: %d, reserved: %.2f KB, requested: %.2f KB, allocs: %d, frees: %d}",
		a.backend,
		a.pattern.String(),
		a.stats.Regions,
		float64(a.stats.BytesReserved)/1024,
		float64(a.stats.BytesRequested)/1024,
		a.stats.TotalAllocs,
		a.stats.TotalFrees,
	)
}

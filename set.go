package offheap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/offheap/internal/arena"
	"github.com/hupe1980/offheap/internal/conv"
	"github.com/hupe1980/offheap/internal/hash"
	"github.com/hupe1980/offheap/internal/mmap"
)

// DefaultSetCapacity is the slot count of a new Set.
const DefaultSetCapacity = 16

// minSetCapacity is the smallest table that still leaves a free slot at the
// 0.75 load factor.
const minSetCapacity = 4

// Slot states. The zero value is EMPTY so freshly mapped memory needs no
// initialization.
const (
	slotEmpty    uint64 = 0
	slotOccupied uint64 = 1
	slotDeleted  uint64 = 2
)

type slot struct {
	state uint64
	value int64
}

// Set is an open-addressing hash set of int64 with linear probing.
//
// Removed values leave a tombstone so later probes keep walking past them.
// Insertions reuse the first tombstone on their probe path. The table doubles
// before the load factor would exceed 0.75, and a resize drops all tombstones.
//
// A Set is not safe for concurrent use.
type Set struct {
	core
	hash       hash.Func
	region     *arena.Region
	slots      []slot // len(slots) is the capacity, always a power of two
	size       int
	tombstones int
}

// NewSet creates an empty Set.
func NewSet(optFns ...Option) (*Set, error) {
	o := applyOptions(optFns)

	capacity, err := o.capacity(DefaultSetCapacity)
	if err != nil {
		return nil, err
	}
	if capacity, err = conv.NextPowerOfTwo(capacity); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCapacity, err)
	}
	capacity = max(capacity, minSetCapacity)

	s := &Set{
		core: newCore("set", o, mmap.AccessRandom),
		hash: o.hasher.fn(),
	}

	r, slots, err := arena.AllocSlice[slot](s.arena, capacity)
	if err != nil {
		_ = s.arena.ReleaseAll()
		return nil, translateError(err)
	}
	s.region = r
	s.slots = slots

	return s, nil
}

// Add inserts v and reports whether it was absent.
func (s *Set) Add(v int64) (bool, error) {
	if err := s.ensureOpen(); err != nil {
		return false, err
	}

	if 4*s.size >= 3*len(s.slots) {
		if err := s.resize(2 * len(s.slots)); err != nil {
			return false, err
		}
	}

	i, found := s.probe(v)
	if found {
		return false, nil
	}
	if s.slots[i].state == slotDeleted {
		s.tombstones--
	}
	s.slots[i] = slot{state: slotOccupied, value: v}
	s.size++
	return true, nil
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v int64) (bool, error) {
	if err := s.ensureOpen(); err != nil {
		return false, err
	}
	return s.lookup(v) >= 0, nil
}

// Remove deletes v and reports whether it was present.
func (s *Set) Remove(v int64) (bool, error) {
	if err := s.ensureOpen(); err != nil {
		return false, err
	}

	i := s.lookup(v)
	if i < 0 {
		return false, nil
	}
	s.slots[i].state = slotDeleted
	s.tombstones++
	s.size--
	return true, nil
}

// Len returns the number of values.
func (s *Set) Len() (int, error) {
	if err := s.ensureOpen(); err != nil {
		return 0, err
	}
	return s.size, nil
}

// IsEmpty reports whether the set has no values.
func (s *Set) IsEmpty() (bool, error) {
	if err := s.ensureOpen(); err != nil {
		return false, err
	}
	return s.size == 0, nil
}

// Clear removes every value and tombstone and keeps the capacity.
func (s *Set) Clear() error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	clear(s.slots)
	s.size = 0
	s.tombstones = 0
	return nil
}

// Stats returns a snapshot of the set's occupancy and memory.
func (s *Set) Stats() (SetStats, error) {
	if err := s.ensureOpen(); err != nil {
		return SetStats{}, err
	}
	return SetStats{
		Len:        s.size,
		Cap:        len(s.slots),
		Tombstones: s.tombstones,
		Memory:     s.memoryStats(),
	}, nil
}

// Close releases the set's memory. Further calls are no-ops.
func (s *Set) Close() error {
	if s == nil {
		return nil
	}
	err := s.release()
	s.region = nil
	s.slots = nil
	s.size = 0
	s.tombstones = 0
	return err
}

// String renders up to 100 values in slot order.
func (s *Set) String() string {
	if s == nil {
		return "Set[nil]"
	}
	if s.closed() {
		return "Set[closed]"
	}

	var sb strings.Builder
	sb.WriteString("Set{")
	written := 0
	for i := range s.slots {
		if s.slots[i].state != slotOccupied {
			continue
		}
		if written == maxDisplay {
			sb.WriteString(", ... (")
			sb.WriteString(strconv.Itoa(s.size - maxDisplay))
			sb.WriteString(" more)")
			break
		}
		if written > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatInt(s.slots[i].value, 10))
		written++
	}
	sb.WriteString("}")
	return sb.String()
}

// lookup returns the slot holding v, or -1.
func (s *Set) lookup(v int64) int {
	mask := len(s.slots) - 1
	i := hash.Index(s.hash(v), len(s.slots))
	for n := len(s.slots); n > 0; n-- {
		switch sl := &s.slots[i]; sl.state {
		case slotEmpty:
			return -1
		case slotOccupied:
			if sl.value == v {
				return i
			}
		}
		i = (i + 1) & mask
	}
	return -1
}

// probe returns the slot holding v, or when v is absent the slot it goes
// into: the first tombstone on its probe path, otherwise the first empty slot.
func (s *Set) probe(v int64) (int, bool) {
	mask := len(s.slots) - 1
	i := hash.Index(s.hash(v), len(s.slots))
	tomb := -1
	for n := len(s.slots); n > 0; n-- {
		switch sl := &s.slots[i]; sl.state {
		case slotEmpty:
			if tomb >= 0 {
				return tomb, false
			}
			return i, false
		case slotOccupied:
			if sl.value == v {
				return i, true
			}
		case slotDeleted:
			if tomb < 0 {
				tomb = i
			}
		}
		i = (i + 1) & mask
	}
	// The load factor keeps a quarter of the slots non-occupied, so a full
	// circle without an empty slot has passed a tombstone.
	return tomb, false
}

// resize rehashes every occupied slot into a table of capacity slots.
// The set is unchanged when the allocation fails.
func (s *Set) resize(capacity int) error {
	start := time.Now()
	from := len(s.slots)

	r, slots, err := arena.AllocSlice[slot](s.arena, capacity)
	if err != nil {
		err = translateError(err)
		s.observeGrow(GrowSet, from, capacity, start, err)
		return err
	}

	mask := capacity - 1
	for _, sl := range s.slots {
		if sl.state != slotOccupied {
			continue
		}
		i := hash.Index(s.hash(sl.value), capacity)
		for slots[i].state != slotEmpty {
			i = (i + 1) & mask
		}
		slots[i] = sl
	}

	old := s.region
	s.region = r
	s.slots = slots
	s.tombstones = 0
	_ = s.arena.Free(old) // unmap failure only leaks the old pages

	s.observeGrow(GrowSet, from, capacity, start, nil)
	return nil
}

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

const (
	// DefaultMapBuckets is the bucket count of a new Map.
	DefaultMapBuckets = 16
	// DefaultEntryPoolSize is the number of entries a new Map holds before its pool grows.
	DefaultEntryPoolSize = 256
)

// nullEntry terminates a chain and marks an empty bucket.
const nullEntry int64 = -1

// entry is a chain node. next is a pool index, not a pointer, so the pool
// can be moved by a plain copy.
type entry struct {
	hash  uint64
	key   int64
	value int64
	next  int64
}

// Map is a separate-chaining hash map from int64 to int64.
//
// Buckets hold the pool index of the first entry of their chain. Entries come
// from a bump-allocated pool that only grows: Remove unlinks an entry but its
// pool slot stays used until Clear. Buckets double once the load factor
// exceeds 0.75.
//
// A Map is not safe for concurrent use.
type Map struct {
	core
	hash    hash.Func
	region  *arena.Region
	buckets []int64 // len(buckets) is always a power of two
	pool    *arena.Pool[entry]
	size    int
}

// NewMap creates an empty Map.
func NewMap(optFns ...Option) (*Map, error) {
	o := applyOptions(optFns)

	buckets, err := o.capacity(DefaultMapBuckets)
	if err != nil {
		return nil, err
	}
	if buckets, err = conv.NextPowerOfTwo(buckets); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCapacity, err)
	}
	poolSize, err := o.poolSize(DefaultEntryPoolSize)
	if err != nil {
		return nil, err
	}

	m := &Map{
		core: newCore("map", o, mmap.AccessRandom),
		hash: o.hasher.fn(),
	}

	r, heads, err := arena.AllocSlice[int64](m.arena, buckets)
	if err != nil {
		_ = m.arena.ReleaseAll()
		return nil, translateError(err)
	}
	fillNull(heads)
	m.region = r
	m.buckets = heads

	if m.pool, err = arena.NewPool[entry](m.arena, poolSize); err != nil {
		_ = m.arena.ReleaseAll()
		return nil, translateError(err)
	}

	return m, nil
}

// Put associates v with k, replacing any previous value.
func (m *Map) Put(k, v int64) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}

	h := hash.Positive(m.hash(k))
	if e := m.find(h, k); e != nil {
		e.value = v
		return nil
	}

	// Everything that can fail happens before the entry is linked.
	if m.pool.Full() {
		if err := m.growPool(2 * m.pool.Cap()); err != nil {
			return err
		}
	}
	if 4*(m.size+1) > 3*len(m.buckets) {
		if err := m.rehash(2 * len(m.buckets)); err != nil {
			return err
		}
	}

	idx, _ := m.pool.Alloc()
	b := hash.Index(h, len(m.buckets))
	*m.pool.At(idx) = entry{hash: h, key: k, value: v, next: m.buckets[b]}
	m.buckets[b] = int64(idx)
	m.size++
	return nil
}

// Get returns the value for k and whether k is present.
func (m *Map) Get(k int64) (int64, bool, error) {
	if err := m.ensureOpen(); err != nil {
		return 0, false, err
	}
	if e := m.find(hash.Positive(m.hash(k)), k); e != nil {
		return e.value, true, nil
	}
	return 0, false, nil
}

// GetOrDefault returns the value for k, or def when k is absent.
func (m *Map) GetOrDefault(k, def int64) (int64, error) {
	v, ok, err := m.Get(k)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// ContainsKey reports whether k is present.
func (m *Map) ContainsKey(k int64) (bool, error) {
	_, ok, err := m.Get(k)
	return ok, err
}

// Remove deletes k and reports whether it was present.
func (m *Map) Remove(k int64) (bool, error) {
	if err := m.ensureOpen(); err != nil {
		return false, err
	}

	h := hash.Positive(m.hash(k))
	b := hash.Index(h, len(m.buckets))

	prev := nullEntry
	for cur := m.buckets[b]; cur != nullEntry; {
		e := m.pool.At(int(cur))
		if e.hash == h && e.key == k {
			if prev == nullEntry {
				m.buckets[b] = e.next
			} else {
				m.pool.At(int(prev)).next = e.next
			}
			e.next = nullEntry
			m.size--
			return true, nil
		}
		prev, cur = cur, e.next
	}
	return false, nil
}

// Len returns the number of keys.
func (m *Map) Len() (int, error) {
	if err := m.ensureOpen(); err != nil {
		return 0, err
	}
	return m.size, nil
}

// IsEmpty reports whether the map has no keys.
func (m *Map) IsEmpty() (bool, error) {
	if err := m.ensureOpen(); err != nil {
		return false, err
	}
	return m.size == 0, nil
}

// Clear removes every key. Bucket count and pool capacity are kept and the
// whole pool becomes available again.
func (m *Map) Clear() error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	fillNull(m.buckets)
	m.pool.Reset()
	m.size = 0
	return nil
}

// Stats returns a snapshot of the map's occupancy and memory.
func (m *Map) Stats() (MapStats, error) {
	if err := m.ensureOpen(); err != nil {
		return MapStats{}, err
	}
	return MapStats{
		Len:      m.size,
		Buckets:  len(m.buckets),
		PoolSize: m.pool.Cap(),
		PoolUsed: m.pool.Len(),
		Memory:   m.memoryStats(),
	}, nil
}

// Close releases the map's memory. Further calls are no-ops.
func (m *Map) Close() error {
	if m == nil {
		return nil
	}
	err := m.release()
	m.region = nil
	m.buckets = nil
	m.pool = nil
	m.size = 0
	return err
}

// String renders up to 100 entries in bucket order.
func (m *Map) String() string {
	if m == nil {
		return "Map[nil]"
	}
	if m.closed() {
		return "Map[closed]"
	}

	var sb strings.Builder
	sb.WriteString("Map{")
	written := 0
	for _, head := range m.buckets {
		for cur := head; cur != nullEntry; {
			e := m.pool.At(int(cur))
			if written == maxDisplay {
				sb.WriteString(", ... (")
				sb.WriteString(strconv.Itoa(m.size - maxDisplay))
				sb.WriteString(" more)}")
				return sb.String()
			}
			if written > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatInt(e.key, 10))
			sb.WriteString(": ")
			sb.WriteString(strconv.FormatInt(e.value, 10))
			written++
			cur = e.next
		}
	}
	sb.WriteString("}")
	return sb.String()
}

// find returns the entry for k with masked hash h, or nil.
// The pointer is only valid until the pool grows.
func (m *Map) find(h uint64, k int64) *entry {
	for cur := m.buckets[hash.Index(h, len(m.buckets))]; cur != nullEntry; {
		e := m.pool.At(int(cur))
		if e.hash == h && e.key == k {
			return e
		}
		cur = e.next
	}
	return nil
}

func (m *Map) growPool(capacity int) error {
	start := time.Now()
	from := m.pool.Cap()

	err := translateError(m.pool.Grow(capacity))
	m.observeGrow(GrowMapPool, from, capacity, start, err)
	return err
}

// rehash relinks every entry into a table of n buckets using the stored
// hashes. The map is unchanged when the allocation fails.
func (m *Map) rehash(n int) error {
	start := time.Now()
	from := len(m.buckets)

	r, heads, err := arena.AllocSlice[int64](m.arena, n)
	if err != nil {
		err = translateError(err)
		m.observeGrow(GrowMapBuckets, from, n, start, err)
		return err
	}
	fillNull(heads)

	for _, head := range m.buckets {
		for cur := head; cur != nullEntry; {
			e := m.pool.At(int(cur))
			next := e.next
			b := hash.Index(e.hash, n)
			e.next = heads[b]
			heads[b] = cur
			cur = next
		}
	}

	old := m.region
	m.region = r
	m.buckets = heads
	_ = m.arena.Free(old) // unmap failure only leaks the old pages

	m.observeGrow(GrowMapBuckets, from, n, start, nil)
	return nil
}

func fillNull(heads []int64) {
	for i := range heads {
		heads[i] = nullEntry
	}
}

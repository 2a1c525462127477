package arena

// Pool is a growable bump allocator of fixed-size records addressed by index.
// Records are handed out sequentially and only reclaimed all at once by Reset.
type Pool[T any] struct {
	a      *Arena
	region *Region
	items  []T
	next   int
}

// NewPool allocates a pool with room for capacity records.
func NewPool[T any](a *Arena, capacity int) (*Pool[T], error) {
	r, items, err := AllocSlice[T](a, capacity)
	if err != nil {
		return nil, err
	}
	return &Pool[T]{a: a, region: r, items: items}, nil
}

// Alloc reserves the next record and returns its index.
// It reports false when the pool is exhausted; call Grow first.
func (p *Pool[T]) Alloc() (int, bool) {
	if p.next >= len(p.items) {
		return 0, false
	}
	idx := p.next
	p.next++
	return idx, true
}

// At returns a pointer to record i. The pointer is invalidated by Grow.
func (p *Pool[T]) At(i int) *T {
	return &p.items[i]
}

// Full reports whether the next Alloc would fail.
func (p *Pool[T]) Full() bool {
	return p.next >= len(p.items)
}

// Len returns the number of records handed out since the last Reset.
func (p *Pool[T]) Len() int {
	return p.next
}

// Cap returns the number of records the pool can hold without growing.
func (p *Pool[T]) Cap() int {
	return len(p.items)
}

// Grow moves the pool into a new region of capacity records, copying every
// existing record. The pool is unchanged when allocation fails.
func (p *Pool[T]) Grow(capacity int) error {
	if capacity <= len(p.items) {
		return nil
	}
	r, items, err := AllocSlice[T](p.a, capacity)
	if err != nil {
		return err
	}
	copy(items, p.items)

	old := p.region
	p.region = r
	p.items = items
	_ = p.a.Free(old) // unmap failure only leaks the old pages
	return nil
}

// Reset makes every record available again without touching the memory.
func (p *Pool[T]) Reset() {
	p.next = 0
}

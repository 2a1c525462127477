package offheap

import (
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/offheap/internal/arena"
	"github.com/hupe1980/offheap/internal/mmap"
)

// DefaultArrayCapacity is the slot count of a new Array.
const DefaultArrayCapacity = 16

// maxDisplay bounds how many elements String renders.
const maxDisplay = 100

// Array is a growable array of int64 stored off-heap.
//
// Appends double the capacity when the array is full, so Add is amortized
// O(1). Capacity never shrinks; Clear and RemoveAt keep the allocation.
//
// An Array is not safe for concurrent use.
type Array struct {
	core
	region *arena.Region
	data   []int64 // len(data) is the capacity
	length int
}

// NewArray creates an empty Array.
func NewArray(optFns ...Option) (*Array, error) {
	o := applyOptions(optFns)

	capacity, err := o.capacity(DefaultArrayCapacity)
	if err != nil {
		return nil, err
	}

	a := &Array{core: newCore("array", o, mmap.AccessDefault)}

	r, data, err := arena.AllocSlice[int64](a.arena, capacity)
	if err != nil {
		_ = a.arena.ReleaseAll()
		return nil, translateError(err)
	}
	a.region = r
	a.data = data

	return a, nil
}

// Add appends v, growing to twice the capacity when the array is full.
func (a *Array) Add(v int64) error {
	if err := a.ensureOpen(); err != nil {
		return err
	}
	if a.length == len(a.data) {
		if err := a.grow(2 * len(a.data)); err != nil {
			return err
		}
	}
	a.data[a.length] = v
	a.length++
	return nil
}

// Get returns the element at index i.
func (a *Array) Get(i int) (int64, error) {
	if err := a.ensureOpen(); err != nil {
		return 0, err
	}
	if err := a.checkIndex(i); err != nil {
		return 0, err
	}
	return a.data[i], nil
}

// Set replaces the element at index i.
func (a *Array) Set(i int, v int64) error {
	if err := a.ensureOpen(); err != nil {
		return err
	}
	if err := a.checkIndex(i); err != nil {
		return err
	}
	a.data[i] = v
	return nil
}

// RemoveAt deletes the element at index i and shifts the tail left by one.
func (a *Array) RemoveAt(i int) error {
	if err := a.ensureOpen(); err != nil {
		return err
	}
	if err := a.checkIndex(i); err != nil {
		return err
	}
	copy(a.data[i:a.length-1], a.data[i+1:a.length])
	a.length--
	return nil
}

// Reserve grows the capacity to exactly n if n exceeds the current capacity.
func (a *Array) Reserve(n int) error {
	if err := a.ensureOpen(); err != nil {
		return err
	}
	if n <= len(a.data) {
		return nil
	}
	return a.grow(n)
}

// Len returns the number of elements.
func (a *Array) Len() (int, error) {
	if err := a.ensureOpen(); err != nil {
		return 0, err
	}
	return a.length, nil
}

// IsEmpty reports whether the array has no elements.
func (a *Array) IsEmpty() (bool, error) {
	if err := a.ensureOpen(); err != nil {
		return false, err
	}
	return a.length == 0, nil
}

// Cap returns the number of elements the array holds without growing.
func (a *Array) Cap() (int, error) {
	if err := a.ensureOpen(); err != nil {
		return 0, err
	}
	return len(a.data), nil
}

// Clear removes all elements and keeps the capacity.
func (a *Array) Clear() error {
	if err := a.ensureOpen(); err != nil {
		return err
	}
	a.length = 0
	return nil
}

// Stats returns a snapshot of the array's size and memory.
func (a *Array) Stats() (ArrayStats, error) {
	if err := a.ensureOpen(); err != nil {
		return ArrayStats{}, err
	}
	return ArrayStats{
		Len:    a.length,
		Cap:    len(a.data),
		Memory: a.memoryStats(),
	}, nil
}

// Close releases the array's memory. Further calls are no-ops.
func (a *Array) Close() error {
	if a == nil {
		return nil
	}
	err := a.release()
	a.region = nil
	a.data = nil
	a.length = 0
	return err
}

// String renders up to the first 100 elements.
func (a *Array) String() string {
	if a == nil {
		return "Array[nil]"
	}
	if a.closed() {
		return "Array[closed]"
	}

	var sb strings.Builder
	sb.WriteString("Array[")
	n := min(a.length, maxDisplay)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatInt(a.data[i], 10))
	}
	if a.length > maxDisplay {
		sb.WriteString(", ... (")
		sb.WriteString(strconv.Itoa(a.length - maxDisplay))
		sb.WriteString(" more)")
	}
	sb.WriteString("]")
	return sb.String()
}

func (a *Array) checkIndex(i int) error {
	if i < 0 || i >= a.length {
		return &IndexError{Index: i, Len: a.length}
	}
	return nil
}

// grow moves the live elements into a new region of capacity slots.
// The array is unchanged when the allocation fails.
func (a *Array) grow(capacity int) error {
	start := time.Now()
	from := len(a.data)

	r, data, err := arena.AllocSlice[int64](a.arena, capacity)
	if err != nil {
		err = translateError(err)
		a.observeGrow(GrowArray, from, capacity, start, err)
		return err
	}
	copy(data, a.data[:a.length])

	old := a.region
	a.region = r
	a.data = data
	_ = a.arena.Free(old) // unmap failure only leaks the old pages

	a.observeGrow(GrowArray, from, capacity, start, nil)
	return nil
}

package arena

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/offheap/internal/conv"
)

// View returns the first n elements of r as a []T.
// T must not contain Go pointers. View panics if r is smaller than n elements.
func View[T any](r *Region, n int) []T {
	if n == 0 {
		return nil
	}
	var zero T
	need := n * int(unsafe.Sizeof(zero))
	data := r.Bytes()
	if n < 0 || need > len(data) {
		panic(fmt.Sprintf("arena: view of %d elements exceeds region of %d bytes", n, len(data)))
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), n) //nolint:gosec // unsafe is required for arena implementation
}

// AllocSlice allocates a zero-filled region for n elements of T, aligned for T,
// and returns it together with its typed view.
func AllocSlice[T any](a *Arena, n int) (*Region, []T, error) {
	var zero T
	size, err := conv.MulInt(n, int(unsafe.Sizeof(zero)))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %d elements: %w", ErrAllocationFailed, n, err)
	}
	r, err := a.Allocate(size, int(unsafe.Alignof(zero)))
	if err != nil {
		return nil, nil, err
	}
	return r, View[T](r, n), nil
}

package mem

import (
	"unsafe"
)

// Alignment is the largest byte alignment AllocAligned supports (one cache line).
const Alignment = 64

// AllocAligned allocates a zeroed byte slice of the given size whose start
// address is divisible by align. align must be a power of two no larger than
// Alignment; smaller values are rounded up to 8.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if align < 8 {
		align = 8
	}
	if align > Alignment || align&(align-1) != 0 {
		return nil
	}

	// Allocate size + align so we can shift the start pointer up to align-1 bytes
	buf := make([]byte, size+align)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	mask := uintptr(align - 1)
	offset := (uintptr(align) - (addr & mask)) & mask

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// IsAligned reports whether the first byte of buf sits on an align boundary.
func IsAligned(buf []byte, align int) bool {
	if len(buf) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&buf[0]))%uintptr(align) == 0 //nolint:gosec // address inspection only
}

package conv

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrOverflow is returned when a conversion or product does not fit the target type.
var ErrOverflow = errors.New("integer overflow")

// IntToUint64 converts int to uint64 safely.
func IntToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d cannot be converted to uint64 (negative)", ErrOverflow, v)
	}
	return uint64(v), nil
}

// MulInt returns count*size, failing on negative operands or overflow.
func MulInt(count, size int) (int, error) {
	if count < 0 || size < 0 {
		return 0, fmt.Errorf("%w: %d * %d (negative operand)", ErrOverflow, count, size)
	}
	hi, lo := bits.Mul64(uint64(count), uint64(size))
	if hi != 0 || lo > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d * %d exceeds int", ErrOverflow, count, size)
	}
	return int(lo), nil
}

// NextPowerOfTwo returns the smallest power of two >= v (1 for v <= 1).
func NextPowerOfTwo(v int) (int, error) {
	if v <= 1 {
		return 1, nil
	}
	n := bits.Len(uint(v - 1))
	if n >= bits.UintSize-1 {
		return 0, fmt.Errorf("%w: no power of two >= %d fits int", ErrOverflow, v)
	}
	return 1 << n, nil
}

package offheap

import (
	"errors"
	"fmt"

	"github.com/hupe1980/offheap/internal/arena"
	"github.com/hupe1980/offheap/resource"
)

var (
	// ErrClosed is returned by every method of a collection after Close.
	ErrClosed = errors.New("offheap: collection is closed")

	// ErrOutOfRange is returned for Array indexes outside [0, Len).
	// The concrete error is an *IndexError.
	ErrOutOfRange = errors.New("offheap: index out of range")

	// ErrInvalidCapacity is returned when an option asks for a non-positive capacity.
	ErrInvalidCapacity = errors.New("offheap: invalid capacity")

	// ErrAllocationFailed is returned when backing memory cannot be obtained.
	// The collection is left exactly as it was before the call.
	ErrAllocationFailed = arena.ErrAllocationFailed

	// ErrMemoryLimitExceeded is wrapped by ErrAllocationFailed when a
	// resource.Controller refused the reservation.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// IndexError reports an out-of-range Array index.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("offheap: index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrOutOfRange }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// An arena is only released by Close, so this is a use after Close.
	if errors.Is(err, arena.ErrReleased) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}

	return err
}

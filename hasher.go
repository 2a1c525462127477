package offheap

import (
	"fmt"

	"github.com/hupe1980/offheap/internal/hash"
)

// Hasher selects the function Set and Map use to spread keys over slots.
type Hasher int

const (
	// HasherMix64 is the fmix64 avalanche finalizer (default).
	HasherMix64 Hasher = iota
	// HasherXXHash hashes the little-endian key bytes with xxHash64.
	HasherXXHash
	// HasherXXH3 hashes the little-endian key bytes with XXH3-64.
	HasherXXH3
	// HasherMurmur3 hashes the little-endian key bytes with MurmurHash3.
	HasherMurmur3
)

func (h Hasher) String() string {
	switch h {
	case HasherMix64:
		return "mix64"
	case HasherXXHash:
		return "xxhash"
	case HasherXXH3:
		return "xxh3"
	case HasherMurmur3:
		return "murmur3"
	default:
		return fmt.Sprintf("Hasher(%d)", int(h))
	}
}

func (h Hasher) fn() hash.Func {
	switch h {
	case HasherXXHash:
		return hash.XXHash
	case HasherXXH3:
		return hash.XXH3
	case HasherMurmur3:
		return hash.Murmur3
	default:
		return hash.Mix64
	}
}

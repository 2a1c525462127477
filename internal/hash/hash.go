package hash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Func maps a key to a 64-bit hash.
type Func func(key int64) uint64

// Mix64 is the fmix64 avalanche finalizer.
func Mix64(key int64) uint64 {
	x := uint64(key)
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// XXHash hashes the little-endian key bytes with xxHash64.
func XXHash(key int64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(key))
	return xxhash.Sum64(buf[:])
}

// XXH3 hashes the little-endian key bytes with XXH3-64.
func XXH3(key int64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(key))
	return xxh3.Hash(buf[:])
}

// Murmur3 hashes the little-endian key bytes with MurmurHash3 x64 (low half).
func Murmur3(key int64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(key))
	return murmur3.Sum64(buf[:])
}

// Positive clears the sign bit so h fits a non-negative int64.
func Positive(h uint64) uint64 {
	return h & math.MaxInt64
}

// Index reduces h to a slot in [0, n). n must be positive.
func Index(h uint64, n int) int {
	return int(Positive(h) % uint64(n))
}

// Package hash provides 64-bit mixers for int64 keys.
//
// # Mix64
//
// The default mixer is the murmur3 fmix64 finalizer (the same xorshift-multiply
// construction splitmix64 uses for its output). It is a bijection on 64-bit
// words with full avalanche, costs two multiplies, and needs no buffer.
//
//	h := hash.Mix64(key)
//
// # Byte-oriented hashes
//
// XXHash, XXH3 and Murmur3 hash the little-endian encoding of the key with the
// corresponding library. They are slower than Mix64 but useful when keys are
// shared with other systems that already bucket by one of these functions.
//
// # Bucket index
//
// Tables reduce a hash with Index, which clears the sign bit before taking the
// remainder, so the stored hash is always a non-negative int64.
package hash

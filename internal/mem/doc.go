// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// AllocAligned returns heap memory whose first byte sits on a requested
// power-of-two boundary. The arena uses it as the heap backend on hosts
// where anonymous mappings are unwanted (tests, tiny collections).
package mem

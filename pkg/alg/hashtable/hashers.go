package hashtable

import "hash/fnv"

// HashBytes computes a 64-bit FNV-1a hash of data.
func HashBytes(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)

	return h.Sum64()
}

// HashString computes a 64-bit FNV-1a hash of s.
func HashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))

	return h.Sum64()
}

// HashUint64 is an identity hasher for 64-bit keys. The table's avalanche
// finalizer does the mixing.
func HashUint64(x uint64) uint64 {
	return x
}

// HashUint32 is an identity hasher for 32-bit keys.
func HashUint32(x uint32) uint64 {
	return uint64(x)
}

// HashInt is an identity hasher for int keys.
func HashInt(x int) uint64 {
	return uint64(x) //nolint:gosec // all bit patterns are valid hashes.
}

package hashtable

import "iter"

// Set is an unordered collection of unique keys backed by a Robin Hood
// table. Set is not safe for concurrent use.
type Set[K comparable] struct {
	core table[K, struct{}]
}

// NewSet creates an empty Set that hashes keys with hash.
func NewSet[K comparable](hash Hasher[K]) *Set[K] {
	return &Set[K]{core: table[K, struct{}]{hash: hash}}
}

// Insert adds key to the set. Inserting a present key is a no-op.
func (s *Set[K]) Insert(key K) {
	s.core.insert(key, struct{}{})
}

// Erase removes key and reports whether it was present.
func (s *Set[K]) Erase(key K) bool {
	return s.core.erase(key)
}

// Contains reports whether key is in the set.
func (s *Set[K]) Contains(key K) bool {
	return s.core.find(key) >= 0
}

// Len returns the number of keys in the set.
func (s *Set[K]) Len() int {
	return s.core.size
}

// Empty reports whether the set holds no keys.
func (s *Set[K]) Empty() bool {
	return s.core.size == 0
}

// Cap returns the current bucket count.
func (s *Set[K]) Cap() int {
	return len(s.core.slots)
}

// Occupancy returns the fraction of buckets in use.
func (s *Set[K]) Occupancy() float64 {
	return s.core.occupancy()
}

// Clear removes all keys and releases the storage.
func (s *Set[K]) Clear() {
	s.core.clear()
}

// All yields every key in arbitrary order. The set must not be modified
// during iteration.
func (s *Set[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for key := range s.core.all() {
			if !yield(key) {
				return
			}
		}
	}
}

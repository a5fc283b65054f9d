package hashtable

import "iter"

// Map associates keys with values using the same Robin Hood table as Set.
// Unlike the built-in map it exposes its occupancy and grows through prime
// capacities. Map is not safe for concurrent use.
type Map[K comparable, V any] struct {
	core table[K, V]
}

// NewMap creates an empty Map that hashes keys with hash.
func NewMap[K comparable, V any](hash Hasher[K]) *Map[K, V] {
	return &Map[K, V]{core: table[K, V]{hash: hash}}
}

// Put associates key with value, replacing any existing association.
func (m *Map[K, V]) Put(key K, value V) {
	m.core.insert(key, value)
}

// Get returns the value associated with key and whether one exists.
func (m *Map[K, V]) Get(key K) (V, bool) {
	idx := m.core.find(key)
	if idx < 0 {
		var zero V

		return zero, false
	}

	return m.core.slots[idx].entry.MustGet().value, true
}

// Erase removes key and reports whether it was present.
func (m *Map[K, V]) Erase(key K) bool {
	return m.core.erase(key)
}

// Contains reports whether key has an association.
func (m *Map[K, V]) Contains(key K) bool {
	return m.core.find(key) >= 0
}

// Len returns the number of associations.
func (m *Map[K, V]) Len() int {
	return m.core.size
}

// Empty reports whether the map holds no associations.
func (m *Map[K, V]) Empty() bool {
	return m.core.size == 0
}

// Cap returns the current bucket count.
func (m *Map[K, V]) Cap() int {
	return len(m.core.slots)
}

// Occupancy returns the fraction of buckets in use.
func (m *Map[K, V]) Occupancy() float64 {
	return m.core.occupancy()
}

// Clear removes all associations and releases the storage.
func (m *Map[K, V]) Clear() {
	m.core.clear()
}

// All yields every association in arbitrary order. The map must not be
// modified during iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return m.core.all()
}

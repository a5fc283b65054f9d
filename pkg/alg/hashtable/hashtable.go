// Package hashtable provides open-addressed hash collections with Robin Hood
// probing.
//
// Every element records its probe sequence length (PSL), the distance from
// its ideal bucket. Inserts steal the slot of any "richer" resident (one with
// a smaller PSL), which keeps the variance of probe distances low, and erases
// backward-shift the following cluster instead of leaving tombstones. Lookups
// terminate as soon as they meet an element richer than the probe, so misses
// are as cheap as hits.
//
// Capacities are primes of the form 6k-1 or 6k+1, roughly doubling on each
// growth, which keeps clustering low for weak hash functions.
package hashtable

import (
	"iter"

	"github.com/Sumatoshi-tech/arbor/pkg/mathutil"
	"github.com/Sumatoshi-tech/arbor/pkg/optional"
)

// Table configuration constants.
const (
	// minCapacity is the smallest table capacity, the first 6k+1 prime.
	minCapacity = 7

	// maxLoadFactor is the occupancy at which the table grows.
	maxLoadFactor = 0.8
)

// Avalanche mixer constants, the 64-bit murmur3 finalizer. The mixer spreads
// entropy across all bits before the modulo, so callers may supply weak
// hashes such as identity on small integers.
const (
	mixMul1  = 0xff51afd7ed558ccd
	mixMul2  = 0xc4ceb9fe1a85ec53
	mixShift = 33
)

// Hasher maps a key to a 64-bit hash. The table applies its own avalanche
// finalizer, so the hasher only needs to be deterministic, not well mixed.
type Hasher[K comparable] func(K) uint64

// pair is a stored key with its associated value.
type pair[K comparable, V any] struct {
	key   K
	value V
}

// slot is one bucket of the open-addressed array.
type slot[K comparable, V any] struct {
	entry optional.Value[pair[K, V]]
	psl   int
}

// table is the shared Robin Hood core behind Set and Map.
type table[K comparable, V any] struct {
	slots []slot[K, V]
	size  int
	hash  Hasher[K]
}

// mix applies the avalanche finalizer to a raw hash.
func mix(x uint64) uint64 {
	x ^= x >> mixShift
	x *= mixMul1
	x ^= x >> mixShift
	x *= mixMul2
	x ^= x >> mixShift

	return x
}

// home returns the ideal bucket for a key in the current capacity.
func (t *table[K, V]) home(key K) int {
	return int(mix(t.hash(key)) % uint64(len(t.slots)))
}

func (t *table[K, V]) next(idx int) int {
	return (idx + 1) % len(t.slots)
}

// occupancy returns size over capacity, 1 for an unallocated table.
func (t *table[K, V]) occupancy() float64 {
	if len(t.slots) == 0 {
		return 1
	}

	return float64(t.size) / float64(len(t.slots))
}

// insert places key with value, replacing the value of an existing key.
func (t *table[K, V]) insert(key K, value V) {
	if t.occupancy() > maxLoadFactor {
		t.growCapacity()
	}

	carried := pair[K, V]{key: key, value: value}
	idx := t.home(key)
	psl := 0

	for t.slots[idx].entry.Ok() {
		resident := &t.slots[idx]

		if resident.entry.MustGet().key == carried.key {
			resident.entry.Set(carried)

			return
		}

		// Steal from the rich: the resident closer to its home yields
		// its slot and continues probing in our place.
		if psl > resident.psl {
			psl, resident.psl = resident.psl, psl
			carried, _ = resident.entry.Replace(carried)
		}

		idx = t.next(idx)
		psl++
	}

	t.slots[idx].entry.Set(carried)
	t.slots[idx].psl = psl
	t.size++
}

// find returns the slot index of key, or -1 when absent.
func (t *table[K, V]) find(key K) int {
	if len(t.slots) == 0 {
		return -1
	}

	idx := t.home(key)
	psl := 0

	for t.slots[idx].entry.Ok() {
		resident := &t.slots[idx]

		// A richer resident means the key was never inserted here.
		if resident.psl > psl {
			return -1
		}

		if resident.entry.MustGet().key == key {
			return idx
		}

		idx = t.next(idx)
		psl++
	}

	return -1
}

// erase removes key if present, backward-shifting the trailing cluster.
func (t *table[K, V]) erase(key K) bool {
	idx := t.find(key)
	if idx < 0 {
		return false
	}

	t.slots[idx].entry.Reset()
	t.slots[idx].psl = 0
	t.size--

	prev := idx
	idx = t.next(idx)

	for t.slots[idx].entry.Ok() && t.slots[idx].psl > 0 {
		t.slots[prev], t.slots[idx] = t.slots[idx], t.slots[prev]
		t.slots[prev].psl--

		prev = idx
		idx = t.next(idx)
	}

	return true
}

// growCapacity moves every element into a table of the next prime capacity.
func (t *table[K, V]) growCapacity() {
	old := t.slots

	t.slots = make([]slot[K, V], nextCapacity(len(old)))
	t.size = 0

	for i := range old {
		if old[i].entry.Ok() {
			entry := old[i].entry.MustGet()
			t.insert(entry.key, entry.value)
		}
	}
}

// clear drops all elements and releases the storage.
func (t *table[K, V]) clear() {
	t.slots = nil
	t.size = 0
}

// all yields every stored pair in arbitrary order. The table must not be
// modified during iteration.
func (t *table[K, V]) all() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range t.slots {
			if !t.slots[i].entry.Ok() {
				continue
			}

			entry := t.slots[i].entry.MustGet()
			if !yield(entry.key, entry.value) {
				return
			}
		}
	}
}

// nextCapacity returns the smallest usable prime capacity after current,
// approximately doubling: primes of the form 6k-1 or 6k+1 starting from
// 2*(current+1)/6 candidates.
func nextCapacity(current int) int {
	n := uint64(current+1) / 6 //nolint:gosec // capacities are non-negative.
	n *= 2

	if n == 0 {
		return minCapacity
	}

	for {
		candidate := 6*n - 1
		if !mathutil.IsPrime(candidate) {
			candidate = 6*n + 1
		}

		if !mathutil.IsPrime(candidate) {
			n++

			continue
		}

		return mathutil.Max(int(candidate), minCapacity) //nolint:gosec // bounded by table sizes.
	}
}

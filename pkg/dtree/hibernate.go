package dtree

import "sync"

// Structural state is de-interleaved into one buffer per record field before
// compression: columns of near-identical small integers compress far better
// than interleaved records.
const (
	bufferParent = iota
	bufferChild
	bufferPrevSibling
	bufferNextSibling
	bufferDepth
	bufferFlags
	bufferFreed
	hibernateBuffers
)

// Hibernated reports whether the structural arena is currently compressed.
func (t *Tree[T]) Hibernated() bool {
	return t.graph == nil && t.hibernatedLen > 0
}

// Hibernate compresses the structural arena and the free list with LZ4,
// releasing the uncompressed storage. Values stay resident: T is opaque to
// the tree. Every operation except Boot, Size and Hibernated panics until
// the tree is booted again.
func (t *Tree[T]) Hibernate() {
	if t.Hibernated() {
		panic("dtree: cannot hibernate an already hibernated tree")
	}

	t.hibernatedLen = len(t.graph)
	t.hibernatedFree = len(t.freed)

	buffers := [hibernateBuffers][]uint32{}
	for idx := range buffers {
		if idx == bufferFreed {
			buffers[idx] = make([]uint32, len(t.freed))

			continue
		}

		buffers[idx] = make([]uint32, len(t.graph))
	}

	for idx, rec := range t.graph {
		buffers[bufferParent][idx] = rec.parent
		buffers[bufferChild][idx] = rec.child
		buffers[bufferPrevSibling][idx] = rec.prevSibling
		buffers[bufferNextSibling][idx] = rec.nextSibling
		buffers[bufferDepth][idx] = rec.depth

		if rec.valid {
			buffers[bufferFlags][idx] = 1
		}
	}

	copy(buffers[bufferFreed], t.freed)

	t.graph = nil
	t.freed = nil

	wg := &sync.WaitGroup{}
	wg.Add(len(buffers))

	for idx, buffer := range buffers {
		go func(bufIdx int, buf []uint32) {
			t.hibernatedData[bufIdx] = compressUint32Slice(buf)
			buffers[bufIdx] = nil

			wg.Done()
		}(idx, buffer)
	}

	wg.Wait()
}

// Boot decompresses and restores the structural arena previously compressed
// by Hibernate. Booting a tree that is not hibernated is a no-op.
func (t *Tree[T]) Boot() {
	if !t.Hibernated() {
		return
	}

	buffers := [hibernateBuffers][]uint32{}

	wg := &sync.WaitGroup{}
	wg.Add(hibernateBuffers)

	for idx := range buffers {
		go func(bufIdx int) {
			length := t.hibernatedLen
			if bufIdx == bufferFreed {
				length = t.hibernatedFree
			}

			buffers[bufIdx] = make([]uint32, length)
			decompressUint32Slice(t.hibernatedData[bufIdx], buffers[bufIdx])
			t.hibernatedData[bufIdx] = nil

			wg.Done()
		}(idx)
	}

	wg.Wait()

	t.graph = make([]record, t.hibernatedLen, capacityFor(t.hibernatedLen))

	for idx := range t.graph {
		rec := &t.graph[idx]
		rec.parent = buffers[bufferParent][idx]
		rec.child = buffers[bufferChild][idx]
		rec.prevSibling = buffers[bufferPrevSibling][idx]
		rec.nextSibling = buffers[bufferNextSibling][idx]
		rec.depth = buffers[bufferDepth][idx]
		rec.valid = buffers[bufferFlags][idx] > 0
	}

	if t.hibernatedFree > 0 {
		t.freed = make([]Node, t.hibernatedFree)
		copy(t.freed, buffers[bufferFreed])
	}

	t.hibernatedLen = 0
	t.hibernatedFree = 0
}

// capacityFor keeps a booted arena from growing again on the very next
// insert.
func capacityFor(length int) int {
	if length >= minCapacity {
		return 2 * length
	}

	return minCapacity
}

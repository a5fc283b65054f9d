// Package dtree provides a generic ordered forest container backed by a flat
// growable arena. Nodes are addressed by stable uint32 ids that survive
// arbitrary insert/erase sequences; reclaimed ids are recycled through a FIFO
// free list. Navigation (parent, first child, previous/next sibling) is O(1).
//
// Id 0 is reserved: it is the always-valid root node and doubles as the
// universal "no node / exhausted" sentinel. No traversal ever emits it.
//
// The container is single-writer: callers coordinate mutation externally.
// Any number of read-only cursors may run concurrently with each other, but
// mutating the tree while a traversal is in progress yields undefined
// results, since cursors cache ids and neighbor state across calls.
package dtree

import (
	"errors"

	"github.com/Sumatoshi-tech/arbor/pkg/mathutil"
	"github.com/Sumatoshi-tech/arbor/pkg/safeconv"
)

// Node is a stable integer handle for a tree node. The zero Node is the root
// and also the "none/exhausted" sentinel.
type Node = uint32

// Root is the reserved id of the sentinel root node.
const Root Node = 0

// minCapacity seeds the doubling growth of the arena.
const minCapacity = 10

// Caller misuse conditions. These are panic values, not returned errors: an
// out-of-range or stale id is a programming error on the caller's side and
// the tree offers no rollback.
var (
	// ErrIndexOutOfRange reports access to an id outside the arena bounds.
	ErrIndexOutOfRange = errors.New("dtree: node id out of range")

	// ErrInvalidParent reports an insert under an id that holds no live node.
	ErrInvalidParent = errors.New("dtree: parent node is not valid")

	// ErrInvalidSibling reports an insert before an id that is not a live
	// child of the given parent.
	ErrInvalidSibling = errors.New("dtree: before node is not a child of parent")
)

// record is the per-node bookkeeping entry. Sibling lists are doubly linked;
// a node's children form a chain starting at child and terminating at a node
// whose nextSibling is Root.
type record struct {
	parent      Node
	child       Node
	prevSibling Node
	nextSibling Node
	depth       uint32
	valid       bool
}

// Tree is a directed forest of values of type T under a single sentinel root.
type Tree[T any] struct {
	graph []record
	data  []T
	freed []Node
	count int

	hibernatedData [hibernateBuffers][]byte
	hibernatedLen  int
	hibernatedFree int
}

// New creates an empty tree holding only the sentinel root.
func New[T any]() *Tree[T] {
	var zero T

	return &Tree[T]{
		graph: append(make([]record, 0, minCapacity), record{valid: true}),
		data:  append(make([]T, 0, minCapacity), zero),
	}
}

// rec returns the record for id, panicking on out-of-range access or use of
// a hibernated tree.
func (t *Tree[T]) rec(id Node) *record {
	if t.graph == nil {
		panic("dtree: hibernated trees cannot be used")
	}

	if int(id) >= len(t.graph) {
		panic(ErrIndexOutOfRange)
	}

	return &t.graph[id]
}

// Parent returns the parent of id. O(1).
func (t *Tree[T]) Parent(id Node) Node {
	return t.rec(id).parent
}

// FirstChild returns the first child of id, or Root if it has none. O(1).
func (t *Tree[T]) FirstChild(id Node) Node {
	return t.rec(id).child
}

// PrevSibling returns the previous sibling of id, or Root. O(1).
func (t *Tree[T]) PrevSibling(id Node) Node {
	return t.rec(id).prevSibling
}

// NextSibling returns the next sibling of id, or Root. O(1).
func (t *Tree[T]) NextSibling(id Node) Node {
	return t.rec(id).nextSibling
}

// Depth returns the distance from id to the root. The root has depth 0. O(1).
func (t *Tree[T]) Depth(id Node) uint {
	return uint(t.rec(id).depth)
}

// LeftMost returns the deepest node reached by following first-child links
// from id, or id itself if it has no children.
func (t *Tree[T]) LeftMost(id Node) Node {
	current := id

	for {
		next := t.rec(current).child
		if next == Root {
			return current
		}

		current = next
	}
}

// Valid reports whether id addresses a live node. Out-of-range ids are
// reported as not valid rather than panicking, so callers can re-validate
// handles they obtained before a structural change.
func (t *Tree[T]) Valid(id Node) bool {
	if t.graph == nil {
		panic("dtree: hibernated trees cannot be used")
	}

	if int(id) >= len(t.graph) {
		return false
	}

	return t.graph[id].valid
}

// At returns a pointer to the value stored at id. The pointer stays valid
// until the node is erased or the tree is cleared.
func (t *Tree[T]) At(id Node) *T {
	if int(id) >= len(t.data) {
		panic(ErrIndexOutOfRange)
	}

	return &t.data[id]
}

// Len returns the number of live nodes, excluding the sentinel root.
func (t *Tree[T]) Len() int {
	return t.count
}

// Size returns the number of arena slots, including the root and any
// recycled slots awaiting reuse. Size never decreases except through Clear.
func (t *Tree[T]) Size() int {
	if t.graph == nil {
		return t.hibernatedLen
	}

	return len(t.graph)
}

// NextID returns, without mutating state, the id the next insert will
// produce: the free-list head if one exists, the next appended slot
// otherwise. It lets a caller build a self-referencing value before the
// insert that stores it.
func (t *Tree[T]) NextID() Node {
	if t.graph == nil {
		panic("dtree: hibernated trees cannot be used")
	}

	if len(t.freed) > 0 {
		return t.freed[0]
	}

	return safeconv.MustIntToUint32(len(t.graph))
}

// Clear destroys every value, empties the free list, and resets the arena to
// the root-only state. All previously issued ids become invalid.
func (t *Tree[T]) Clear() {
	if t.graph == nil {
		panic("dtree: hibernated trees cannot be used")
	}

	var zero T

	t.graph = append(make([]record, 0, minCapacity), record{valid: true})
	t.data = append(make([]T, 0, minCapacity), zero)
	t.freed = nil
	t.count = 0
}

// Clone returns a deep copy of the tree structure. Values are copied with
// plain assignment, so reference types share underlying storage.
func (t *Tree[T]) Clone() *Tree[T] {
	if t.graph == nil {
		panic("dtree: cannot clone a hibernated tree")
	}

	clone := &Tree[T]{
		graph: make([]record, len(t.graph), cap(t.graph)),
		data:  make([]T, len(t.data), cap(t.data)),
		count: t.count,
	}

	copy(clone.graph, t.graph)
	copy(clone.data, t.data)

	if len(t.freed) > 0 {
		clone.freed = make([]Node, len(t.freed))
		copy(clone.freed, t.freed)
	}

	return clone
}

// grow doubles the arena capacity, seeded from minCapacity.
func (t *Tree[T]) grow() {
	newCap := mathutil.Max(minCapacity, 2*cap(t.graph))

	graph := make([]record, len(t.graph), newCap)
	copy(graph, t.graph)
	t.graph = graph

	data := make([]T, len(t.data), newCap)
	copy(data, t.data)
	t.data = data
}

// alloc obtains an id for a new node: the FIFO free-list head when one
// exists, a freshly appended arena slot otherwise. The paired value slot is
// set to value; the record is left zeroed for the caller to initialize.
func (t *Tree[T]) alloc(value T) Node {
	if len(t.freed) > 0 {
		id := t.freed[0]

		t.freed = t.freed[1:]
		if len(t.freed) == 0 {
			t.freed = nil
		}

		t.graph[id] = record{}
		t.data[id] = value

		return id
	}

	if len(t.graph) == int(safeconv.MaxUint32) {
		panic("dtree: arena exhausted the uint32 id space")
	}

	if len(t.graph) == cap(t.graph) {
		t.grow()
	}

	id := safeconv.MustIntToUint32(len(t.graph))
	t.graph = append(t.graph, record{})
	t.data = append(t.data, value)

	return id
}

// release tears down a node slot: the value is zeroed so the garbage
// collector can reclaim what it referenced, the record is invalidated, and
// the id joins the free-list tail.
func (t *Tree[T]) release(id Node) {
	var zero T

	t.data[id] = zero
	t.graph[id] = record{}
	t.freed = append(t.freed, id)
	t.count--
}

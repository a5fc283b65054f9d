package dtree

import (
	"fmt"

	"github.com/Sumatoshi-tech/arbor/pkg/mathutil"
)

// Order selects one of the traversal strategies.
type Order uint8

// Traversal orders. BreadthFirst deliberately diverges from textbook
// level-order: children of the node just visited are scheduled ahead of
// later unrelated siblings. Downstream consumers depend on that sequence, so
// the push discipline in breadthFirstCursor must not be "corrected".
const (
	PreOrder Order = iota
	BreadthFirst
	InOrder
	PostOrder
	Unordered
)

// String returns the lowercase name of the order.
func (o Order) String() string {
	switch o {
	case PreOrder:
		return "pre-order"
	case BreadthFirst:
		return "breadth-first"
	case InOrder:
		return "in-order"
	case PostOrder:
		return "post-order"
	case Unordered:
		return "unordered"
	default:
		return fmt.Sprintf("order(%d)", uint8(o))
	}
}

// Cursor is a resumable single-step traversal state machine. Each call to
// Next receives the previously returned id (Root on the first call) and
// returns the next id in the cursor's order, or Root once exhausted. A
// cursor owns private pending state and never observes edits made after it
// started; any number of cursors may be advanced concurrently as long as the
// tree itself is not mutated.
type Cursor interface {
	Next(id Node) Node
}

// NewCursor binds a cursor for the given order to the tree.
func NewCursor[T any](t *Tree[T], order Order) Cursor {
	switch order {
	case PreOrder:
		return &preOrderCursor[T]{tree: t}
	case BreadthFirst:
		return &breadthFirstCursor[T]{tree: t}
	case InOrder:
		return &inOrderCursor[T]{tree: t}
	case PostOrder:
		return &postOrderCursor[T]{tree: t}
	case Unordered:
		return &unorderedCursor[T]{tree: t}
	default:
		panic(fmt.Sprintf("dtree: unknown traversal order %d", uint8(order)))
	}
}

// breadthFirstCursor schedules the visited node's next sibling at the back
// of its queue and its first child at the front. The front placement is what
// prioritizes a node's children over later unrelated siblings.
type breadthFirstCursor[T any] struct {
	tree    *Tree[T]
	pending nodeDeque
}

func (c *breadthFirstCursor[T]) Next(id Node) Node {
	current := c.tree.rec(id)

	if current.nextSibling != Root {
		c.pending.pushBack(current.nextSibling)
	}

	if current.child != Root {
		c.pending.pushFront(current.child)
	}

	if c.pending.empty() {
		return Root
	}

	return c.pending.popFront()
}

// preOrderCursor pushes the next sibling and then the first child, both to
// the front, so a node's first child is visited immediately after it and the
// sibling subtree only after the node's own subtree completes.
type preOrderCursor[T any] struct {
	tree    *Tree[T]
	pending nodeDeque
}

func (c *preOrderCursor[T]) Next(id Node) Node {
	current := c.tree.rec(id)

	if current.nextSibling != Root {
		c.pending.pushFront(current.nextSibling)
	}

	if current.child != Root {
		c.pending.pushFront(current.child)
	}

	if c.pending.empty() {
		return Root
	}

	return c.pending.popFront()
}

// inOrderCursor seeds with the left-most descendant of the starting node and
// weaves parents in between their children's subtrees.
type inOrderCursor[T any] struct {
	tree    *Tree[T]
	pending nodeDeque
	seeded  bool
}

func (c *inOrderCursor[T]) Next(id Node) Node {
	if !c.seeded {
		c.seeded = true

		leftMost := c.tree.LeftMost(id)
		if leftMost != Root {
			c.pending.pushBack(leftMost)
		}
	}

	if c.pending.empty() {
		return Root
	}

	next := c.pending.popFront()
	current := c.tree.rec(next)

	if current.nextSibling != Root {
		// The parent is visited between sibling subtrees while more than one
		// of them remains. The root sentinel is never scheduled.
		if c.tree.rec(current.nextSibling).nextSibling != Root && current.parent != Root {
			c.pending.pushBack(current.parent)
		}

		c.pending.pushBack(c.tree.LeftMost(current.nextSibling))
	}

	return next
}

// postOrderCursor seeds with the left-most descendant of the starting node,
// then advances to the left-most descendant of the next sibling, or up to
// the parent once no further sibling exists.
type postOrderCursor[T any] struct {
	tree    *Tree[T]
	pending nodeDeque
}

func (c *postOrderCursor[T]) Next(id Node) Node {
	if c.pending.empty() {
		c.pending.pushBack(c.tree.LeftMost(id))
	}

	next := c.pending.popFront()
	if next == Root {
		return Root
	}

	current := c.tree.rec(next)

	if current.nextSibling != Root {
		c.pending.pushBack(c.tree.LeftMost(current.nextSibling))
	} else {
		c.pending.pushBack(current.parent)
	}

	return next
}

// unorderedCursor linearly scans arena slots, skipping the root and any
// invalid slot. It holds no pending state: the previously returned id alone
// determines the scan position.
type unorderedCursor[T any] struct {
	tree *Tree[T]
}

func (c *unorderedCursor[T]) Next(id Node) Node {
	if c.tree.graph == nil {
		panic("dtree: hibernated trees cannot be used")
	}

	for idx := int(id) + 1; idx < len(c.tree.graph); idx++ {
		if c.tree.graph[idx].valid {
			return Node(idx)
		}
	}

	return Root
}

// nodeDeque is a ring-buffer double-ended queue of node ids used as cursor
// pending state.
type nodeDeque struct {
	buf  []Node
	head int
	size int
}

const minDequeCapacity = 8

func (d *nodeDeque) empty() bool {
	return d.size == 0
}

func (d *nodeDeque) grow() {
	if d.size < len(d.buf) {
		return
	}

	buf := make([]Node, mathutil.Max(minDequeCapacity, 2*len(d.buf)))

	for idx := range d.size {
		buf[idx] = d.buf[(d.head+idx)%len(d.buf)]
	}

	d.buf = buf
	d.head = 0
}

func (d *nodeDeque) pushFront(id Node) {
	d.grow()

	d.head = (d.head - 1 + len(d.buf)) % len(d.buf)
	d.buf[d.head] = id
	d.size++
}

func (d *nodeDeque) pushBack(id Node) {
	d.grow()

	d.buf[(d.head+d.size)%len(d.buf)] = id
	d.size++
}

func (d *nodeDeque) popFront() Node {
	if d.size == 0 {
		panic("dtree: pop from empty deque")
	}

	id := d.buf[d.head]
	d.head = (d.head + 1) % len(d.buf)
	d.size--

	return id
}

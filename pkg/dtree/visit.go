package dtree

import "iter"

// Traverse feeds every node of the tree, in the given order, to visit as a
// (id, value) pair. Returning false from visit stops the traversal early.
// The root sentinel is never visited. Mutating the tree while a traversal is
// in progress is unsupported and yields undefined results.
func (t *Tree[T]) Traverse(order Order, visit func(id Node, value *T) bool) {
	cursor := NewCursor(t, order)

	for id := cursor.Next(Root); id != Root; id = cursor.Next(id) {
		if !visit(id, &t.data[id]) {
			return
		}
	}
}

// All returns a range-over-func iterator over (id, value) pairs in the given
// order, equivalent to Traverse:
//
//	for id, value := range tree.All(dtree.PreOrder) { ... }
func (t *Tree[T]) All(order Order) iter.Seq2[Node, *T] {
	return func(yield func(Node, *T) bool) {
		t.Traverse(order, yield)
	}
}

// Values returns a range-over-func iterator over values only, in the given
// order.
func (t *Tree[T]) Values(order Order) iter.Seq[T] {
	return func(yield func(T) bool) {
		t.Traverse(order, func(_ Node, value *T) bool {
			return yield(*value)
		})
	}
}

package dtree

// Insert appends value as the last child of parent and returns the new
// node's id. The id remains valid and stable until the node is erased.
func (t *Tree[T]) Insert(value T, parent Node) Node {
	return t.InsertBefore(value, parent, Root)
}

// InsertBefore places value under parent immediately before the existing
// child before. Passing Root for before means "append after the last child".
// Panics with ErrInvalidParent if parent holds no live node, and with
// ErrInvalidSibling if before is live but not a child of parent.
func (t *Tree[T]) InsertBefore(value T, parent, before Node) Node {
	if !t.Valid(parent) {
		panic(ErrInvalidParent)
	}

	var prev, next Node

	if before == Root {
		// Append: resolve the true insertion point as the tail of the
		// sibling chain.
		prev = t.lastChild(parent)
	} else {
		if !t.Valid(before) || t.graph[before].parent != parent {
			panic(ErrInvalidSibling)
		}

		next = before
		prev = t.graph[before].prevSibling
	}

	id := t.alloc(value)

	t.graph[id] = record{
		parent:      parent,
		prevSibling: prev,
		nextSibling: next,
		depth:       t.graph[parent].depth + 1,
		valid:       true,
	}

	if prev != Root {
		t.graph[prev].nextSibling = id
	} else {
		// The new node is the head of the sibling list.
		t.graph[parent].child = id
	}

	if next != Root {
		t.graph[next].prevSibling = id
	}

	t.count++

	return id
}

// Erase removes id and its entire subtree. Erasing the root, or an id whose
// node was already erased, is a silent no-op; the latter keeps every freed id
// on the free list exactly once. Complexity is proportional to the size of
// the erased subtree.
func (t *Tree[T]) Erase(id Node) {
	if id == Root {
		return
	}

	if int(id) >= len(t.graph) {
		panic(ErrIndexOutOfRange)
	}

	erased := t.graph[id]
	if !erased.valid {
		return
	}

	// Detach from the sibling list.
	if erased.prevSibling != Root {
		t.graph[erased.prevSibling].nextSibling = erased.nextSibling
	} else {
		t.graph[erased.parent].child = erased.nextSibling
	}

	if erased.nextSibling != Root {
		t.graph[erased.nextSibling].prevSibling = erased.prevSibling
	}

	t.release(id)

	// Reclaim the subtree breadth-first. Descendant sibling links are not
	// repaired individually: the whole subtree is discarded as a unit.
	var worklist []Node

	if erased.child != Root {
		worklist = append(worklist, erased.child)
	}

	for len(worklist) > 0 {
		next := worklist[0]
		worklist = worklist[1:]

		descendant := t.graph[next]
		if descendant.nextSibling != Root {
			worklist = append(worklist, descendant.nextSibling)
		}

		if descendant.child != Root {
			worklist = append(worklist, descendant.child)
		}

		t.release(next)
	}
}

// Swap exchanges the tree positions of a and b without changing either id:
// their children and sibling positions trade places. Used to reorder nodes
// while keeping handles stable, e.g. re-sorting siblings after a rename.
// Swapping a node with itself or with the root is a no-op.
func (t *Tree[T]) Swap(a, b Node) {
	if a == b || a == Root || b == Root {
		return
	}

	if !t.Valid(a) || !t.Valid(b) {
		panic(ErrIndexOutOfRange)
	}

	depthChanged := t.graph[a].depth != t.graph[b].depth

	t.graph[a], t.graph[b] = t.graph[b], t.graph[a]

	// Each record still names the other node's old neighborhood. A link to
	// a inside those records must now resolve to b, and vice versa, because
	// the two slots traded positions.
	redirect(&t.graph[a], a, b)
	redirect(&t.graph[b], b, a)

	t.reattach(a)
	t.reattach(b)

	if depthChanged {
		t.rebaseDepth(a)
		t.rebaseDepth(b)
	}
}

// lastChild returns the tail of parent's sibling chain, or Root when parent
// has no children.
func (t *Tree[T]) lastChild(parent Node) Node {
	tail := t.graph[parent].child
	if tail == Root {
		return Root
	}

	for t.graph[tail].nextSibling != Root {
		tail = t.graph[tail].nextSibling
	}

	return tail
}

// redirect rewrites links inside rec that still name from, so they name to.
func redirect(rec *record, from, to Node) {
	if rec.parent == from {
		rec.parent = to
	}

	if rec.child == from {
		rec.child = to
	}

	if rec.prevSibling == from {
		rec.prevSibling = to
	}

	if rec.nextSibling == from {
		rec.nextSibling = to
	}
}

// reattach points the neighborhood of id back at it: the previous sibling's
// next link (or the parent's first-child link when id is the head), the next
// sibling's prev link, and every direct child's parent link.
func (t *Tree[T]) reattach(id Node) {
	rec := t.graph[id]

	if rec.prevSibling != Root {
		t.graph[rec.prevSibling].nextSibling = id
	} else {
		t.graph[rec.parent].child = id
	}

	if rec.nextSibling != Root {
		t.graph[rec.nextSibling].prevSibling = id
	}

	for c := rec.child; c != Root; c = t.graph[c].nextSibling {
		t.graph[c].parent = id
	}
}

// rebaseDepth walks the subtree under id top-down, restoring the
// depth(node) = depth(parent) + 1 invariant after a cross-depth swap.
func (t *Tree[T]) rebaseDepth(id Node) {
	worklist := []Node{}

	for c := t.graph[id].child; c != Root; c = t.graph[c].nextSibling {
		worklist = append(worklist, c)
	}

	for len(worklist) > 0 {
		next := worklist[0]
		worklist = worklist[1:]

		t.graph[next].depth = t.graph[t.graph[next].parent].depth + 1

		for c := t.graph[next].child; c != Root; c = t.graph[c].nextSibling {
			worklist = append(worklist, c)
		}
	}
}

package dtree //nolint:testpackage // tests assert on unexported arena state (graph, freed).

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSmallTree creates the canonical fixture: root→A, root→B, A→C,
// inserted in that order with plain appends.
func buildSmallTree(t *testing.T) (*Tree[string], Node, Node, Node) {
	t.Helper()

	tree := New[string]()
	a := tree.Insert("A", Root)
	b := tree.Insert("B", Root)
	c := tree.Insert("C", a)

	return tree, a, b, c
}

func TestNewTree(t *testing.T) {
	t.Parallel()

	tree := New[int]()

	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, 1, tree.Size())
	assert.True(t, tree.Valid(Root))
	assert.Equal(t, Root, tree.Parent(Root))
	assert.Equal(t, Root, tree.FirstChild(Root))
	assert.Equal(t, Root, tree.PrevSibling(Root))
	assert.Equal(t, Root, tree.NextSibling(Root))
	assert.Equal(t, uint(0), tree.Depth(Root))
}

func TestInsertAppendsAtTail(t *testing.T) {
	t.Parallel()

	tree := New[string]()

	first := tree.Insert("first", Root)
	second := tree.Insert("second", Root)
	third := tree.Insert("third", Root)

	// first_child changes only on the first insert.
	assert.Equal(t, first, tree.FirstChild(Root))
	assert.Equal(t, second, tree.NextSibling(first))
	assert.Equal(t, third, tree.NextSibling(second))
	assert.Equal(t, Root, tree.NextSibling(third))

	// The sibling list is doubly linked and head-terminated.
	assert.Equal(t, Root, tree.PrevSibling(first))
	assert.Equal(t, first, tree.PrevSibling(second))
	assert.Equal(t, second, tree.PrevSibling(third))
}

func TestInsertBeforeSibling(t *testing.T) {
	t.Parallel()

	tree := New[string]()

	first := tree.Insert("first", Root)
	third := tree.Insert("third", Root)

	second := tree.InsertBefore("second", Root, third)

	assert.Equal(t, first, tree.FirstChild(Root))
	assert.Equal(t, second, tree.NextSibling(first))
	assert.Equal(t, third, tree.NextSibling(second))
	assert.Equal(t, second, tree.PrevSibling(third))
	assert.Equal(t, first, tree.PrevSibling(second))
}

func TestInsertBeforeHead(t *testing.T) {
	t.Parallel()

	tree := New[string]()

	tail := tree.Insert("tail", Root)
	head := tree.InsertBefore("head", Root, tail)

	assert.Equal(t, head, tree.FirstChild(Root), "parent first_child must follow the new head")
	assert.Equal(t, Root, tree.PrevSibling(head))
	assert.Equal(t, tail, tree.NextSibling(head))
}

func TestInsertValues(t *testing.T) {
	t.Parallel()

	tree, a, b, c := buildSmallTree(t)

	assert.Equal(t, "A", *tree.At(a))
	assert.Equal(t, "B", *tree.At(b))
	assert.Equal(t, "C", *tree.At(c))
}

func TestDepthInvariant(t *testing.T) {
	t.Parallel()

	tree := New[int]()
	rng := rand.New(rand.NewSource(42))
	live := []Node{Root}

	for range 500 {
		if rng.Intn(4) == 0 && len(live) > 1 {
			victim := live[1+rng.Intn(len(live)-1)]
			tree.Erase(victim)

			// Rebuild the live set from a scan.
			live = live[:1]
			for id := range tree.All(Unordered) {
				live = append(live, id)
			}

			continue
		}

		parent := live[rng.Intn(len(live))]
		live = append(live, tree.Insert(rng.Int(), parent))
	}

	checked := 0

	for id := range tree.All(Unordered) {
		require.True(t, tree.Valid(id))
		assert.Equal(t, tree.Depth(tree.Parent(id))+1, tree.Depth(id))

		checked++
	}

	assert.Equal(t, tree.Len(), checked)
	assert.Equal(t, uint(0), tree.Depth(Root))
}

func TestNextIDPredictsInsert(t *testing.T) {
	t.Parallel()

	tree := New[string]()

	next := tree.NextID()
	got := tree.Insert("x", Root)
	assert.Equal(t, next, got)

	// Works through the free list as well.
	tree.Erase(got)

	next = tree.NextID()
	got = tree.Insert("y", Root)
	assert.Equal(t, next, got)
}

func TestSelfReferencingValue(t *testing.T) {
	t.Parallel()

	type payload struct {
		self Node
	}

	tree := New[payload]()

	id := tree.Insert(payload{self: tree.NextID()}, Root)
	assert.Equal(t, id, tree.At(id).self)
}

func TestEraseLeaf(t *testing.T) {
	t.Parallel()

	tree, a, b, c := buildSmallTree(t)

	tree.Erase(c)

	assert.False(t, tree.Valid(c))
	assert.True(t, tree.Valid(a))
	assert.True(t, tree.Valid(b))
	assert.Equal(t, Root, tree.FirstChild(a))
	assert.Equal(t, 2, tree.Len())
}

func TestEraseMiddleSiblingPatchesNeighbors(t *testing.T) {
	t.Parallel()

	tree := New[string]()
	first := tree.Insert("first", Root)
	second := tree.Insert("second", Root)
	third := tree.Insert("third", Root)

	tree.Erase(second)

	assert.Equal(t, third, tree.NextSibling(first))
	assert.Equal(t, first, tree.PrevSibling(third))
	assert.Equal(t, first, tree.FirstChild(Root))
}

func TestEraseHeadRepointsFirstChild(t *testing.T) {
	t.Parallel()

	tree := New[string]()
	first := tree.Insert("first", Root)
	second := tree.Insert("second", Root)

	tree.Erase(first)

	assert.Equal(t, second, tree.FirstChild(Root))
	assert.Equal(t, Root, tree.PrevSibling(second))
}

func TestEraseSubtreeScenario(t *testing.T) {
	t.Parallel()

	// Spec scenario: erase(A) leaves exactly {B}; A and C come back from the
	// free list in FIFO order as the next two inserted ids.
	tree, a, b, c := buildSmallTree(t)

	tree.Erase(a)

	var remaining []Node

	for id := range tree.All(Unordered) {
		remaining = append(remaining, id)
	}

	require.Equal(t, []Node{b}, remaining)

	sizeBefore := tree.Size()

	gotA := tree.Insert("reused-1", Root)
	gotC := tree.Insert("reused-2", Root)

	assert.Equal(t, a, gotA, "first recycled id must be the erased node itself")
	assert.Equal(t, c, gotC, "second recycled id must be its descendant, FIFO")
	assert.Equal(t, sizeBefore, tree.Size(), "ids are recycled, not reclaimed as space")
	assert.Equal(t, "reused-1", *tree.At(gotA))
}

func TestEraseRootIsNoOp(t *testing.T) {
	t.Parallel()

	tree, _, _, _ := buildSmallTree(t)

	tree.Erase(Root)

	assert.True(t, tree.Valid(Root))
	assert.Equal(t, 3, tree.Len())
}

func TestEraseTwiceIsNoOp(t *testing.T) {
	t.Parallel()

	tree, a, _, _ := buildSmallTree(t)

	tree.Erase(a)

	freedBefore := len(tree.freed)
	tree.Erase(a)

	assert.Len(t, tree.freed, freedBefore, "a freed id must appear in the free list exactly once")
}

func TestEraseDeepSubtree(t *testing.T) {
	t.Parallel()

	tree := New[int]()

	top := tree.Insert(0, Root)
	current := top

	for depth := 1; depth < 20; depth++ {
		current = tree.Insert(depth, current)
	}

	keeper := tree.Insert(99, Root)

	tree.Erase(top)

	assert.Equal(t, 1, tree.Len())
	assert.True(t, tree.Valid(keeper))

	for id := range tree.All(Unordered) {
		assert.Equal(t, keeper, id)
	}
}

func TestRecycledSlotIsFresh(t *testing.T) {
	t.Parallel()

	tree := New[[]byte]()

	id := tree.Insert([]byte("payload"), Root)
	child := tree.Insert([]byte("child"), id)

	tree.Erase(id)

	// Slots are zeroed on release.
	assert.Nil(t, tree.data[id])
	assert.Nil(t, tree.data[child])

	reused := tree.Insert([]byte("fresh"), Root)
	require.Equal(t, id, reused)
	assert.Equal(t, []byte("fresh"), *tree.At(reused))
	assert.Equal(t, Root, tree.FirstChild(reused), "recycled records must not leak old children")
}

func TestArenaGrowthDoubling(t *testing.T) {
	t.Parallel()

	tree := New[int]()

	require.Equal(t, minCapacity, cap(tree.graph))

	for i := range 100 {
		tree.Insert(i, Root)
	}

	assert.Equal(t, 101, tree.Size())
	assert.Equal(t, 160, cap(tree.graph), "capacity must double from the seed: 10→20→40→80→160")
}

func TestSwapSiblings(t *testing.T) {
	t.Parallel()

	tree := New[string]()
	a := tree.Insert("a", Root)
	b := tree.Insert("b", Root)
	c := tree.Insert("c", Root)

	countBefore := tree.Len()

	tree.Swap(a, b)

	assert.Equal(t, countBefore, tree.Len())
	assert.Equal(t, b, tree.FirstChild(Root), "swapped-in node takes over the first_child slot")
	assert.Equal(t, a, tree.NextSibling(b))
	assert.Equal(t, c, tree.NextSibling(a))
	assert.Equal(t, b, tree.PrevSibling(a))
	assert.Equal(t, a, tree.PrevSibling(c))

	// Values do not move: they stay co-indexed with their ids.
	assert.Equal(t, "a", *tree.At(a))
	assert.Equal(t, "b", *tree.At(b))
}

func TestSwapMovesChildren(t *testing.T) {
	t.Parallel()

	tree := New[string]()
	a := tree.Insert("a", Root)
	b := tree.Insert("b", Root)
	childA := tree.Insert("child-of-a", a)
	childB1 := tree.Insert("child-of-b-1", b)
	childB2 := tree.Insert("child-of-b-2", b)

	tree.Swap(a, b)

	// Children trade places with their parents' positions.
	assert.Equal(t, childB1, tree.FirstChild(a))
	assert.Equal(t, childB2, tree.NextSibling(childB1))
	assert.Equal(t, childA, tree.FirstChild(b))

	assert.Equal(t, a, tree.Parent(childB1))
	assert.Equal(t, a, tree.Parent(childB2))
	assert.Equal(t, b, tree.Parent(childA))
}

func TestSwapAcrossDepths(t *testing.T) {
	t.Parallel()

	tree := New[string]()
	top := tree.Insert("top", Root)
	mid := tree.Insert("mid", top)
	deep := tree.Insert("deep", mid)
	leaf := tree.Insert("leaf", deep)

	other := tree.Insert("other", Root)

	tree.Swap(other, deep)

	// other now sits under mid; deep is a top-level node carrying its leaf.
	assert.Equal(t, mid, tree.Parent(other))
	assert.Equal(t, Root, tree.Parent(deep))
	assert.Equal(t, deep, tree.Parent(leaf))

	assert.Equal(t, uint(3), tree.Depth(other))
	assert.Equal(t, uint(1), tree.Depth(deep))
	assert.Equal(t, uint(2), tree.Depth(leaf), "descendant depths follow the moved subtree")
}

func TestSwapNoOps(t *testing.T) {
	t.Parallel()

	tree, a, b, _ := buildSmallTree(t)

	tree.Swap(a, a)
	tree.Swap(Root, b)
	tree.Swap(b, Root)

	assert.Equal(t, a, tree.FirstChild(Root))
	assert.Equal(t, 3, tree.Len())
}

func TestClear(t *testing.T) {
	t.Parallel()

	tree, a, _, _ := buildSmallTree(t)

	tree.Erase(a)
	tree.Clear()

	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, 1, tree.Size())
	assert.Equal(t, Root, tree.FirstChild(Root))
	assert.True(t, tree.Valid(Root))
	assert.Empty(t, tree.freed)

	// The arena restarts id assignment from the first slot.
	assert.Equal(t, Node(1), tree.NextID())
}

func TestClone(t *testing.T) {
	t.Parallel()

	tree, a, b, c := buildSmallTree(t)

	tree.Erase(c)

	clone := tree.Clone()

	// Same shape, same free list.
	assert.Equal(t, tree.Len(), clone.Len())
	assert.Equal(t, tree.NextID(), clone.NextID())
	assert.Equal(t, a, clone.FirstChild(Root))
	assert.Equal(t, b, clone.NextSibling(a))

	// Fully independent storage.
	clone.Erase(a)
	assert.True(t, tree.Valid(a))
	assert.False(t, clone.Valid(a))
}

func TestPanicsOnMisuse(t *testing.T) {
	t.Parallel()

	t.Run("out_of_range_navigation", func(t *testing.T) {
		t.Parallel()

		tree := New[int]()

		assert.PanicsWithValue(t, ErrIndexOutOfRange, func() {
			tree.Parent(1000)
		})
	})

	t.Run("invalid_parent_insert", func(t *testing.T) {
		t.Parallel()

		tree := New[int]()

		assert.PanicsWithValue(t, ErrInvalidParent, func() {
			tree.Insert(1, 1000)
		})
	})

	t.Run("stale_parent_insert", func(t *testing.T) {
		t.Parallel()

		tree := New[int]()
		id := tree.Insert(1, Root)
		tree.Erase(id)

		assert.PanicsWithValue(t, ErrInvalidParent, func() {
			tree.Insert(2, id)
		})
	})

	t.Run("foreign_before_sibling", func(t *testing.T) {
		t.Parallel()

		tree := New[int]()
		a := tree.Insert(1, Root)
		childA := tree.Insert(2, a)

		assert.PanicsWithValue(t, ErrInvalidSibling, func() {
			tree.InsertBefore(3, Root, childA)
		})
	})
}

func TestValidOutOfRange(t *testing.T) {
	t.Parallel()

	tree := New[int]()

	assert.False(t, tree.Valid(1000), "out-of-range ids report invalid instead of panicking")
}

// randomized shape oracle: mirror the tree with a map-based parent/children
// model and verify structural agreement after each operation batch.
type oracleNode struct {
	parent   Node
	children []Node
}

func TestRandomizedOracle(t *testing.T) {
	t.Parallel()

	tree := New[int]()
	rng := rand.New(rand.NewSource(7))
	model := map[Node]*oracleNode{Root: {}}

	removeFromModel := func(id Node) {
		var drop func(Node)

		drop = func(victim Node) {
			for _, child := range model[victim].children {
				drop(child)
			}

			delete(model, victim)
		}

		parent := model[id].parent
		siblings := model[parent].children

		for idx, child := range siblings {
			if child == id {
				model[parent].children = append(siblings[:idx:idx], siblings[idx+1:]...)

				break
			}
		}

		drop(id)
	}

	for round := range 2000 {
		if rng.Intn(3) == 0 && len(model) > 1 {
			// Pick a random non-root model node to erase.
			victims := make([]Node, 0, len(model))

			for id := range model {
				if id != Root {
					victims = append(victims, id)
				}
			}

			victim := victims[rng.Intn(len(victims))]
			tree.Erase(victim)
			removeFromModel(victim)
		} else {
			parents := make([]Node, 0, len(model))
			for id := range model {
				parents = append(parents, id)
			}

			parent := parents[rng.Intn(len(parents))]
			id := tree.Insert(round, parent)
			model[id] = &oracleNode{parent: parent}
			model[parent].children = append(model[parent].children, id)
		}
	}

	require.Equal(t, len(model)-1, tree.Len())

	for id, want := range model {
		if id == Root {
			continue
		}

		require.True(t, tree.Valid(id), "model node %d must be live", id)
		assert.Equal(t, want.parent, tree.Parent(id))
	}

	// Child iteration order must match the model's append order.
	for id, want := range model {
		var got []Node

		for child := tree.FirstChild(id); child != Root; child = tree.NextSibling(child) {
			got = append(got, child)
		}

		assert.Equal(t, fmt.Sprint(want.children), fmt.Sprint(got), "children of %d", id)
	}
}

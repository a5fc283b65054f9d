// Package objpool provides a slot-recycling object list with stable ids.
//
// Objects live in a flat slice and are addressed by the uint64 id of their
// slot. Erased slots are pushed on a LIFO stack and handed back to the next
// insert, so ids of erased objects are reused most-recent first. Unlike
// pkg/dtree the pool imposes no structure between objects, which makes it
// the cheaper choice for flat registries.
package objpool

import (
	"iter"

	"github.com/Sumatoshi-tech/arbor/pkg/optional"
)

// ID addresses one slot of a List. IDs are dense: the first insert gets 0,
// the next 1, and so on, until erases introduce reusable gaps.
type ID = uint64

// List is a flat pool of T with LIFO slot recycling. List is not safe for
// concurrent use.
type List[T any] struct {
	data  []optional.Value[T]
	freed []ID
}

// New creates an empty List.
func New[T any]() *List[T] {
	return &List[T]{}
}

// Size returns the number of slots, live and freed both.
func (l *List[T]) Size() int {
	return len(l.data)
}

// Len returns the number of live objects.
func (l *List[T]) Len() int {
	return len(l.data) - len(l.freed)
}

// Insert stores value and returns the id of its slot, preferring the most
// recently freed slot over growing the pool.
func (l *List[T]) Insert(value T) ID {
	if len(l.freed) == 0 {
		l.data = append(l.data, optional.Of(value))

		return ID(len(l.data) - 1)
	}

	id := l.freed[len(l.freed)-1]
	l.freed = l.freed[:len(l.freed)-1]

	l.data[id].Set(value)

	return id
}

// Erase frees the slot of id. Erasing an already freed slot is a no-op, so
// a slot is never pushed on the free stack twice.
func (l *List[T]) Erase(id ID) {
	if !l.Valid(id) {
		return
	}

	l.data[id].Reset()
	l.freed = append(l.freed, id)
}

// Valid reports whether id addresses a live object. Out-of-range ids are
// reported invalid rather than panicking.
func (l *List[T]) Valid(id ID) bool {
	if id >= ID(len(l.data)) {
		return false
	}

	return l.data[id].Ok()
}

// At returns a pointer to the object of id. At panics when id is freed or
// out of range.
func (l *List[T]) At(id ID) *T {
	if !l.Valid(id) {
		panic("objpool: access to invalid id")
	}

	return l.data[id].Ptr()
}

// Clear drops every object and the free stack.
func (l *List[T]) Clear() {
	l.data = nil
	l.freed = nil
}

// All yields every live object in slot order. The pool must not be modified
// during iteration.
func (l *List[T]) All() iter.Seq2[ID, *T] {
	return func(yield func(ID, *T) bool) {
		for idx := range l.data {
			if !l.data[idx].Ok() {
				continue
			}

			if !yield(ID(idx), l.data[idx].Ptr()) {
				return
			}
		}
	}
}

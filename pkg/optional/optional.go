// Package optional provides a nullable value wrapper that distinguishes
// "no value" from a zero value without resorting to pointers.
package optional

// Value holds a T together with a validity flag. The zero Value is empty.
type Value[T any] struct {
	data  T
	valid bool
}

// Of returns a Value holding data.
func Of[T any](data T) Value[T] {
	return Value[T]{data: data, valid: true}
}

// Empty returns a Value holding nothing.
func Empty[T any]() Value[T] {
	return Value[T]{}
}

// Ok reports whether a value is present.
func (v Value[T]) Ok() bool {
	return v.valid
}

// Get returns the held value and whether one is present.
func (v Value[T]) Get() (T, bool) {
	return v.data, v.valid
}

// MustGet returns the held value, panics if empty.
func (v Value[T]) MustGet() T {
	if !v.valid {
		panic("optional: get from empty value")
	}

	return v.data
}

// Or returns the held value if present, fallback otherwise.
func (v Value[T]) Or(fallback T) T {
	if v.valid {
		return v.data
	}

	return fallback
}

// Set stores data and marks the value present.
func (v *Value[T]) Set(data T) {
	v.data = data
	v.valid = true
}

// Ptr returns the address of the held storage so callers can mutate the
// value in place. The pointee is meaningful only while Ok reports true.
func (v *Value[T]) Ptr() *T {
	return &v.data
}

// Replace stores data, marks the value present and returns what was held
// before. The returned value is meaningful only when ok is true.
func (v *Value[T]) Replace(data T) (prev T, ok bool) {
	prev, ok = v.data, v.valid
	v.data = data
	v.valid = true

	return prev, ok
}

// Reset drops the held value. The underlying storage is zeroed so released
// references do not pin memory.
func (v *Value[T]) Reset() {
	var zero T

	v.data = zero
	v.valid = false
}

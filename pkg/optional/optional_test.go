package optional

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsEmpty(t *testing.T) {
	t.Parallel()

	var v Value[int]

	assert.False(t, v.Ok())

	_, ok := v.Get()
	assert.False(t, ok)
}

func TestOf(t *testing.T) {
	t.Parallel()

	v := Of("hello")

	require.True(t, v.Ok())

	got, ok := v.Get()
	assert.True(t, ok)
	assert.Equal(t, "hello", got)
	assert.Equal(t, "hello", v.MustGet())
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	v := Empty[int]()

	assert.False(t, v.Ok())
	assert.PanicsWithValue(t, "optional: get from empty value", func() {
		v.MustGet()
	})
}

func TestOr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, Of(7).Or(3))
	assert.Equal(t, 3, Empty[int]().Or(3))
}

func TestSetReset(t *testing.T) {
	t.Parallel()

	var v Value[[]byte]

	v.Set([]byte("payload"))
	require.True(t, v.Ok())

	v.Reset()
	assert.False(t, v.Ok())

	// Reset zeroes the slot, not just the flag.
	got, _ := v.Get()
	assert.Nil(t, got)
}

func TestPtrMutatesInPlace(t *testing.T) {
	t.Parallel()

	v := Of(10)
	*v.Ptr() = 20

	assert.Equal(t, 20, v.MustGet())
}

func TestReplace(t *testing.T) {
	t.Parallel()

	var v Value[int]

	_, ok := v.Replace(1)
	assert.False(t, ok)

	prev, ok := v.Replace(2)
	assert.True(t, ok)
	assert.Equal(t, 1, prev)
	assert.Equal(t, 2, v.MustGet())
}

func TestDistinguishesZeroFromEmpty(t *testing.T) {
	t.Parallel()

	v := Of(0)

	assert.True(t, v.Ok())
	assert.Equal(t, 0, v.MustGet())
}

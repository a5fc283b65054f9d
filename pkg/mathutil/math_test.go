package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, Min(1, 2))
	assert.Equal(t, 1, Min(2, 1))
	assert.Equal(t, -3, Min(-3, 0))
}

func TestMax(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, Max(1, 2))
	assert.Equal(t, 2, Max(2, 1))
	assert.Equal(t, 0, Max(-3, 0))
}

func TestIsPrime(t *testing.T) {
	t.Parallel()

	primes := []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71, 73, 79, 83, 89, 97}

	nonPrimes := []uint64{0, 1, 4, 6, 8, 9, 10, 12, 15, 21, 25, 27, 33, 35, 49, 77, 91, 100}

	for _, p := range primes {
		assert.True(t, IsPrime(p), "expected %d to be prime", p)
	}

	for _, n := range nonPrimes {
		assert.False(t, IsPrime(n), "expected %d to be composite", n)
	}
}

func TestIsPrimeLarge(t *testing.T) {
	t.Parallel()

	assert.True(t, IsPrime(104729))
	assert.False(t, IsPrime(104730))
	assert.True(t, IsPrime(1000003))
}

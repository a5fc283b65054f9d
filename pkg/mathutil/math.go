// Package mathutil provides generic integer math helper functions.
package mathutil

import "math"

// Min calculates the minimum of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}

	return b
}

// Max calculates the maximum of two integers.
func Max(a, b int) int {
	if a < b {
		return b
	}

	return a
}

// IsPrime reports whether x is a prime number using 6k±1 trial division.
func IsPrime(x uint64) bool {
	if x <= 1 {
		return false
	}

	if x == 2 || x == 3 {
		return true
	}

	if x%2 == 0 || x%3 == 0 {
		return false
	}

	limit := uint64(math.Sqrt(float64(x)))
	for i := uint64(5); i <= limit; i += 6 {
		if x%i == 0 || x%(i+2) == 0 {
			return false
		}
	}

	return true
}

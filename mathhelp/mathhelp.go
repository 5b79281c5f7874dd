package mathhelp

import (
	"math"

	"golang.org/x/exp/constraints"
)

func Pow2(n uint) uint64 {
	return 1 << n
}

// Clamp limits f to the closed range [lower, upper].
func Clamp[T constraints.Integer | constraints.Float](f, lower, upper T) T {
	return max(min(f, upper), lower)
}

// EuclidianMod returns the remainder of d / m, always with the sign of m.
func EuclidianMod(d, m float64) float64 {
	r := math.Mod(d, m)
	if (r < 0 && m > 0) || (r > 0 && m < 0) {
		return r + m
	}
	return r
}

// Package fmath holds the small scalar helpers shared by the geometry stages.
package fmath

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Epsilon is the length below which a vector is treated as degenerate.
const Epsilon = 1e-9

// Clamp limits v to [lo, hi]. NaN collapses to lo.
func Clamp[T constraints.Float](v, lo, hi T) T {
	if v > hi {
		return hi
	}
	if v >= lo {
		return v
	}
	return lo
}

// Saturate clamps v to [0, 1].
func Saturate[T constraints.Float](v T) T {
	return Clamp(v, 0, 1)
}

// Lerp interpolates linearly between a and b.
// t=0 returns a, t=1 returns b.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite[T constraints.Float](v T) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

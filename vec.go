package flowstroke

import (
	"math"

	"github.com/gogpu/flowstroke/internal/fmath"
)

// Vec2 represents a 2D displacement vector.
// Unlike Point which represents a position, Vec2 represents a direction and
// magnitude: tangents, normals and tail directions are all Vec2.
type Vec2 struct {
	X, Y float64
}

// V2 is a convenience function to create a Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// defaultDirection is used wherever a tangent degenerates to zero length.
var defaultDirection = V2(1, 0)

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns the vector scaled by a scalar.
func (v Vec2) Mul(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Length returns the length (magnitude) of the vector.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector in the same direction.
// Returns the zero vector if the length is below fmath.Epsilon.
func (v Vec2) Normalize() Vec2 {
	length := v.Length()
	if length < fmath.Epsilon || !fmath.IsFinite(length) {
		return Vec2{}
	}
	return Vec2{X: v.X / length, Y: v.Y / length}
}

// NormalizeOr returns a unit vector in the same direction, or fallback when
// the vector is degenerate.
func (v Vec2) NormalizeOr(fallback Vec2) Vec2 {
	n := v.Normalize()
	if n.IsZero() {
		return fallback
	}
	return n
}

// Perp returns the perpendicular vector (rotated 90 degrees counter-clockwise).
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// IsZero returns true if the vector is the zero vector.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

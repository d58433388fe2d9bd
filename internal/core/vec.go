package core

import "math"

// Vec2 is a 2D vector in map space. One unit is one grid cell.
// The y axis points down (towards higher layout rows).
type Vec2 struct {
	X, Y float64
}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// UnitFromAngle returns the unit vector pointing at angle radians.
func UnitFromAngle(angle float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{X: c, Y: s}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Div returns v / s.
func (v Vec2) Div(s float64) Vec2 {
	return Vec2{X: v.X / s, Y: v.Y / s}
}

// Neg returns -v.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Norm returns the Euclidean length.
func (v Vec2) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Hat turns the vector ninety degrees: (x, y) -> (-y, x).
// With y pointing down this is a clockwise turn, i.e. "to the right".
func (v Vec2) Hat() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// Angle returns the direction of the vector in radians.
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// SetLen returns a vector in the same direction with the given length.
// The zero vector stays zero.
func (v Vec2) SetLen(length float64) Vec2 {
	scale := length / v.Norm()
	if math.IsInf(scale, 0) || math.IsNaN(scale) {
		return Vec2{}
	}
	return v.Scale(scale)
}

// Proj projects v onto o. Projecting onto the zero vector yields zero.
func (v Vec2) Proj(o Vec2) Vec2 {
	divisor := 1 / o.Dot(o)
	if math.IsInf(divisor, 0) || math.IsNaN(divisor) {
		return Vec2{}
	}
	return o.Scale(v.Dot(o) * divisor)
}

// Floor returns the grid cell containing v.
func (v Vec2) Floor() (int, int) {
	return int(math.Floor(v.X)), int(math.Floor(v.Y))
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

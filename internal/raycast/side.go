// Package raycast walks rays through a uniform grid (DDA), one cell
// boundary at a time, and reports what the ray met on the way: see-through
// materials, mirrors, opaque walls, the edge of the map or its destination.
// It is generic over the material type so the world package decides what
// counts as a wall.
package raycast

import "github.com/vovakirdan/ulvestein/internal/core"

// Side is the face of a cell through which a ray entered it.
type Side int

const (
	SideRight Side = iota // Entered moving -x
	SideDown              // Entered moving -y
	SideLeft              // Entered moving +x
	SideUp                // Entered moving +y
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideRight:
		return "Right"
	case SideDown:
		return "Down"
	case SideLeft:
		return "Left"
	case SideUp:
		return "Up"
	default:
		return "Unknown"
	}
}

// alongX returns the side entered when stepping along the x axis.
func alongX(positive bool) Side {
	if positive {
		return SideLeft
	}
	return SideRight
}

// alongY returns the side entered when stepping along the y axis.
func alongY(positive bool) Side {
	if positive {
		return SideUp
	}
	return SideDown
}

// sideFromVec picks the side for the dominant axis of a direction.
func sideFromVec(d core.Vec2) Side {
	if abs(d.X) > abs(d.Y) {
		return alongX(!signbit(d.X))
	}
	return alongY(!signbit(d.Y))
}

// UnitVector returns the outward normal of the face.
func (s Side) UnitVector() core.Vec2 {
	switch s {
	case SideRight:
		return core.V(1, 0)
	case SideDown:
		return core.V(0, 1)
	case SideLeft:
		return core.V(-1, 0)
	default:
		return core.V(0, -1)
	}
}

// Horizontal reports whether the face lies along the x axis (Up or Down).
func (s Side) Horizontal() bool {
	return s == SideUp || s == SideDown
}

package world

import (
	"math"

	"github.com/vovakirdan/ulvestein/internal/core"
)

// FOV limits in degrees.
const (
	MinFOV = 20.0
	MaxFOV = 160.0
)

// Fov holds the projection values derived from a horizontal field of view
// and the framebuffer size.
type Fov struct {
	Degrees  float64
	Vertical float64 // Vertical field of view in radians
	Tan      float64 // Tangent of half the horizontal FOV

	// HeightCoefficient is the distance to the projection plane in pixels,
	// which is also the projected height of a unit wall at distance 1.
	// It is 0.5 W / Tan, the plane the column rays dir/Tan + k*hat(dir)
	// are laid out on, so a unit cube projects as tall as it is wide.
	HeightCoefficient float64
}

// NewFov computes projection values for a w x h framebuffer.
// The FOV is clamped to [MinFOV, MaxFOV].
func NewFov(degrees float64, w, h int) Fov {
	degrees = core.ClampF(degrees, MinFOV, MaxFOV)
	half := degrees * math.Pi / 360
	tan := math.Tan(half)
	width := float64(max(w, 1))

	return Fov{
		Degrees:           degrees,
		Vertical:          2 * math.Atan(float64(h)/width*tan),
		Tan:               tan,
		HeightCoefficient: 0.5 * width / tan,
	}
}

// Change returns the FOV widened by delta degrees, for the same frame size.
func (f Fov) Change(delta float64, w, h int) Fov {
	return NewFov(f.Degrees+delta, w, h)
}

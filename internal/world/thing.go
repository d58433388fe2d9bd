package world

import (
	"math"

	"github.com/vovakirdan/ulvestein/internal/core"
)

// Thing is a billboard sprite standing on the floor.
type Thing struct {
	Pos         core.Vec2
	Radius      float64
	TextureName string

	tex *Texture
}

// Texture returns the sprite texture.
func (t *Thing) Texture() *Texture {
	return t.tex
}

// Hit tests the thing against the ray segment a->b. dist is the distance
// to the thing measured along the segment and u the texture column.
func (t *Thing) Hit(a, b core.Vec2) (dist, u float64, ok bool) {
	seg := b.Sub(a)
	length := seg.Norm()
	if length == 0 || t.Radius <= 0 {
		return 0, 0, false
	}

	dir := seg.Div(length)
	to := t.Pos.Sub(a)

	along := to.Dot(dir)
	if along <= 0 || along > length {
		return 0, 0, false
	}

	// Signed offset of the centre from the ray, positive to the right.
	// Rays passing left of the centre sample the left half of the sprite.
	lateral := to.Sub(dir.Scale(along)).Dot(dir.Hat())
	if math.Abs(lateral) > t.Radius {
		return 0, 0, false
	}

	return along, 0.5 - lateral/(2*t.Radius), true
}

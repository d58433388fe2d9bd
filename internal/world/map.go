package world

import (
	"github.com/vovakirdan/ulvestein/internal/core"
	"github.com/vovakirdan/ulvestein/internal/raycast"
)

const (
	// moveEpsilon keeps the player just off a wall after a collision.
	moveEpsilon = 1e-4
	// moveSlides is the number of times a move may slide along walls.
	moveSlides = 3
	// moveNodeLimit is large enough for any single-step move.
	moveNodeLimit = 64
)

// Layer is one textured hit in a screen column.
type Layer struct {
	Dark bool    // Hit an Up or Down face
	U    float64 // Horizontal texture coordinate in [0, 1)
	Dist float64 // Path length from the player, mirror bounces included
	Mat  Mat
}

// Map is a loaded level.
type Map struct {
	ID     string
	Name   string
	Width  int
	Height int

	grid      []Mat
	materials map[Mat]*Material
	things    []Thing

	spawnX, spawnY int
	spawnAngle     float64
}

// Get returns the material at a cell. ok is false outside the grid.
func (m *Map) Get(x, y int) (Mat, bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return Empty, false
	}
	return m.grid[y*m.Width+x], true
}

// Material returns the properties of a material id.
func (m *Map) Material(id Mat) *Material {
	return m.materials[id]
}

// Things returns the billboards placed on the map.
func (m *Map) Things() []Thing {
	return m.things
}

// Spawn returns the spawn cell and facing angle.
func (m *Map) Spawn() (x, y int, angle float64) {
	return m.spawnX, m.spawnY, m.spawnAngle
}

func (m *Map) isTransparent(id Mat) bool {
	mat := m.materials[id]
	return mat != nil && mat.Transparent && !mat.Mirror
}

func (m *Map) isMirror(id Mat) bool {
	mat := m.materials[id]
	return mat != nil && mat.Mirror
}

func (m *Map) isOpaque(id Mat) bool {
	mat := m.materials[id]
	return mat == nil || mat.Opaque()
}

// renderOptions classifies materials the way the eye sees them.
func (m *Map) renderOptions(limit int) raycast.Options[Mat] {
	return raycast.Options[Mat]{
		NodeLimit:     limit,
		Get:           m.Get,
		IsNode:        Mat.Solid,
		IsTerminator:  m.isOpaque,
		IsReflector:   m.isMirror,
		IsPassThrough: m.isTransparent,
	}
}

// moveOptions makes every solid material a wall.
func (m *Map) moveOptions() raycast.Options[Mat] {
	return raycast.Options[Mat]{
		Finite:        true,
		NodeLimit:     moveNodeLimit,
		Get:           m.Get,
		IsNode:        Mat.Solid,
		IsTerminator:  Mat.Solid,
		IsReflector:   func(Mat) bool { return false },
		IsPassThrough: func(Mat) bool { return false },
	}
}

// RenderCast casts an infinite ray from p along ray and returns the
// textured layers hit, nearest first, plus the path the ray travelled
// (origin, every bounce, end point).
func (m *Map) RenderCast(p, ray core.Vec2, limit int) ([]Layer, []core.Vec2) {
	pts := raycast.Cast(p, ray, m.renderOptions(limit))

	layers := make([]Layer, 0, len(pts.Hits))
	prev := p
	dist := 0.0
	for _, h := range pts.Hits {
		dist += h.Pos.Sub(prev).Norm()
		prev = h.Pos

		if h.Kind == raycast.KindVoid || h.Kind == raycast.KindDestination {
			continue
		}
		layers = append(layers, Layer{
			Dark: h.Side.Horizontal(),
			U:    faceU(h.Pos, h.Side),
			Dist: dist,
			Mat:  h.Mat,
		})
	}

	return layers, pts.Segments()
}

// faceU returns the texture coordinate along a face. Right and Up faces are
// flipped so textures read left to right from the viewer's side.
func faceU(pos core.Vec2, side raycast.Side) float64 {
	var u float64
	if side.Horizontal() {
		u = core.Fract(pos.X)
	} else {
		u = core.Fract(pos.Y)
	}
	if side == raycast.SideRight || side == raycast.SideUp {
		u = 1 - u
	}
	return u
}

// MoveCast moves from p by dp, stopping at walls and sliding along them.
// It returns the resulting position.
func (m *Map) MoveCast(p, dp core.Vec2) core.Vec2 {
	pos := p
	rest := dp

	for range moveSlides {
		if rest.IsZero() {
			break
		}

		pts := raycast.Cast(pos, rest, m.moveOptions())
		hit, blocked := pts.Blocked()
		if !blocked {
			return pts.Target
		}

		normal := hit.Side.UnitVector()
		over := pts.Target.Sub(hit.Pos)
		pos = hit.Pos.Add(normal.Scale(moveEpsilon))
		rest = over.Sub(over.Proj(normal))
	}

	return pos
}

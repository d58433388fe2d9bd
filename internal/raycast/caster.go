package raycast

import (
	"math"

	"github.com/vovakirdan/ulvestein/internal/core"
)

// maxSteps bounds the number of cell boundaries a single cast may cross.
// Grids are finite, so a well-formed cast stops far earlier.
const maxSteps = 1 << 14

// Kind classifies a recorded point.
type Kind int

const (
	// KindReflection: the ray was reflected by a mirror material.
	KindReflection Kind = iota
	// KindPass: a solid, see-through material; the ray continues.
	KindPass
	// KindVoid: the ray left the map. End point of infinite casts.
	KindVoid
	// KindTermination: the ray hit an opaque material. End point.
	KindTermination
	// KindDestination: a finite cast reached its target. End point.
	KindDestination
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindReflection:
		return "Reflection"
	case KindPass:
		return "Pass"
	case KindVoid:
		return "Void"
	case KindTermination:
		return "Termination"
	case KindDestination:
		return "Destination"
	default:
		return "Unknown"
	}
}

// Blocks reports whether a point of this kind stops movement. The void
// blocks too, so nothing walks off the grid.
func (k Kind) Blocks() bool {
	return k != KindDestination
}

// Point is one event along a cast.
type Point[M any] struct {
	Pos  core.Vec2
	Kind Kind
	Mat  M    // Zero for Void and Destination
	Side Side // Face entered; meaningless for Destination
}

// Points is the result of a cast.
type Points[M any] struct {
	Origin core.Vec2
	Target core.Vec2 // Only meaningful for finite casts
	Finite bool
	Hits   []Point[M]
}

// Options configures a cast.
type Options[M any] struct {
	Finite    bool // Stop at from+dist
	NodeLimit int  // Maximum number of recorded points, reflections included

	// Get returns the material of a cell; false means the cell is void.
	Get func(x, y int) (M, bool)

	// IsNode selects materials that produce points at all. Node materials
	// are then classified by IsTerminator, IsReflector and IsPassThrough,
	// in that order.
	IsNode        func(M) bool
	IsTerminator  func(M) bool
	IsReflector   func(M) bool
	IsPassThrough func(M) bool

	// SkipFirstCheck ignores the material of the starting cell.
	SkipFirstCheck bool
}

// direction of travel along one axis.
type direction bool

const (
	dirPos direction = true
	dirNeg direction = false
)

func newDirection(n float64) direction {
	if signbit(n) {
		return dirNeg
	}
	return dirPos
}

// next returns the neighbouring cell index along the axis.
func (d direction) next(n int) int {
	if d == dirPos {
		return n + 1
	}
	return n - 1
}

// boundary returns the coordinate of the next cell edge along the axis.
func (d direction) boundary(n int) float64 {
	if d == dirPos {
		return float64(n + 1)
	}
	return float64(n)
}

// Cast walks a ray from `from` along `dist`.
// For infinite casts only the direction of dist matters.
func Cast[M any](from, dist core.Vec2, opts Options[M]) Points[M] {
	pts := Points[M]{
		Origin: from,
		Finite: opts.Finite,
	}
	if opts.Finite {
		pts.Target = from.Add(dist)
	}
	pts.Hits = cast(from, dist, opts, opts.NodeLimit, opts.SkipFirstCheck)
	return pts
}

func cast[M any](from, dist core.Vec2, opts Options[M], limit int, skipFirst bool) []Point[M] {
	dest := from.Add(dist)
	points := make([]Point[M], 0, 2)

	if dist.IsZero() {
		if opts.Finite && limit > 0 {
			points = append(points, Point[M]{Pos: dest, Kind: KindDestination})
		}
		return points
	}

	cur := from
	gx, gy := cur.Floor()
	xDir := newDirection(dist.X)
	yDir := newDirection(dist.Y)

	// On a grid line you only collide with the cell you are moving towards
	if core.Fract(cur.X) == 0 && xDir == dirNeg {
		gx--
	}
	if core.Fract(cur.Y) == 0 && yDir == dirNeg {
		gy--
	}

	side := sideFromVec(dist)
	checkMat := !skipFirst

	for step := 0; step < maxSteps; step++ {
		if len(points) >= limit {
			break
		}

		if opts.Finite && cur.Sub(dest).Dot(dist) >= 0 {
			points = append(points, Point[M]{Pos: dest, Kind: KindDestination})
			break
		}

		if checkMat {
			if cur.X < 0 || cur.Y < 0 {
				points = append(points, Point[M]{Pos: cur, Kind: KindVoid, Side: side})
				break
			}

			mat, ok := opts.Get(gx, gy)
			if !ok {
				points = append(points, Point[M]{Pos: cur, Kind: KindVoid, Side: side})
				break
			}

			if opts.IsNode(mat) {
				switch {
				case opts.IsTerminator(mat):
					points = append(points, Point[M]{Pos: cur, Kind: KindTermination, Mat: mat, Side: side})
					return finish(points, dest, opts.Finite)

				case opts.IsReflector(mat):
					points = append(points, Point[M]{Pos: cur, Kind: KindReflection, Mat: mat, Side: side})

					d := dist
					if opts.Finite {
						d = dest.Sub(cur)
					}
					if side.Horizontal() {
						d.Y = -d.Y
					} else {
						d.X = -d.X
					}

					rest := cast(cur, d, opts, limit-len(points), false)
					return append(points, rest...)

				case opts.IsPassThrough(mat):
					points = append(points, Point[M]{Pos: cur, Kind: KindPass, Mat: mat, Side: side})
				}
			}
		}
		checkMat = true

		corner := core.V(xDir.boundary(gx), yDir.boundary(gy))
		distance := corner.Sub(cur)

		// Time until the next x and y boundary respectively
		tx := distance.X / dist.X
		ty := distance.Y / dist.Y

		if tx < ty {
			side = alongX(xDir == dirPos)
			cur.X = corner.X
			cur.Y += tx * dist.Y
			gx = xDir.next(gx)
		} else {
			side = alongY(yDir == dirPos)
			cur.Y = corner.Y
			cur.X += ty * dist.X
			gy = yDir.next(gy)
		}
	}

	return finish(points, dest, opts.Finite)
}

// finish appends the destination to finite casts that ended in the void.
func finish[M any](points []Point[M], dest core.Vec2, finite bool) []Point[M] {
	if finite && len(points) > 0 && points[len(points)-1].Kind == KindVoid {
		points = append(points, Point[M]{Pos: dest, Kind: KindDestination})
	}
	return points
}

// Blocked returns the first point that stops movement, if any.
func (p Points[M]) Blocked() (Point[M], bool) {
	for _, h := range p.Hits {
		if h.Kind.Blocks() {
			return h, true
		}
	}
	return Point[M]{}, false
}

// Clip returns how far a finite cast overshoots its first blocking point
// (target minus the hit) together with the face that was hit.
// ok is false when nothing blocks the way.
func (p Points[M]) Clip() (clip core.Vec2, side Side, ok bool) {
	hit, ok := p.Blocked()
	if !ok {
		return core.Vec2{}, 0, false
	}
	return p.Target.Sub(hit.Pos), hit.Side, true
}

// Segments returns the straight pieces of the path: origin, each
// reflection point, and the last recorded point. A cast cut short by the
// node limit ends at its last hit, whatever its kind.
func (p Points[M]) Segments() []core.Vec2 {
	path := []core.Vec2{p.Origin}
	for _, h := range p.Hits {
		if h.Kind == KindReflection {
			path = append(path, h.Pos)
		}
	}
	if n := len(p.Hits); n > 0 {
		if last := p.Hits[n-1].Pos; path[len(path)-1] != last {
			path = append(path, last)
		}
	}
	return path
}

func abs(x float64) float64 {
	return math.Abs(x)
}

func signbit(x float64) bool {
	return math.Signbit(x)
}

package raycast

import (
	"math"
	"testing"

	"github.com/vovakirdan/ulvestein/internal/core"
)

// grid is a tiny test map: '#' wall, 'G' glass, 'M' mirror, anything else empty.
type grid []string

func (g grid) get(x, y int) (byte, bool) {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return 0, false
	}
	return g[y][x], true
}

func (g grid) opts(finite bool, limit int) Options[byte] {
	return Options[byte]{
		Finite:        finite,
		NodeLimit:     limit,
		Get:           g.get,
		IsNode:        func(m byte) bool { return m == '#' || m == 'G' || m == 'M' },
		IsTerminator:  func(m byte) bool { return m == '#' },
		IsReflector:   func(m byte) bool { return m == 'M' },
		IsPassThrough: func(m byte) bool { return m == 'G' },
	}
}

var room = grid{
	"#####",
	"#...#",
	"#...#",
	"#...#",
	"#####",
}

func near(a, b core.Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestCastHitsWall(t *testing.T) {
	tests := []struct {
		name string
		dir  core.Vec2
		pos  core.Vec2
		side Side
	}{
		{"east", core.V(1, 0), core.V(4, 2.5), SideLeft},
		{"west", core.V(-1, 0), core.V(1, 2.5), SideRight},
		{"south", core.V(0, 1), core.V(2.5, 4), SideUp},
		{"north", core.V(0, -1), core.V(2.5, 1), SideDown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pts := Cast(core.V(2.5, 2.5), tc.dir, room.opts(false, 8))
			if len(pts.Hits) != 1 {
				t.Fatalf("expected 1 hit, got %d: %+v", len(pts.Hits), pts.Hits)
			}
			h := pts.Hits[0]
			if h.Kind != KindTermination {
				t.Errorf("kind = %s, expected Termination", h.Kind)
			}
			if !near(h.Pos, tc.pos) {
				t.Errorf("pos = %v, expected %v", h.Pos, tc.pos)
			}
			if h.Side != tc.side {
				t.Errorf("side = %s, expected %s", h.Side, tc.side)
			}
			if h.Mat != '#' {
				t.Errorf("mat = %q, expected '#'", h.Mat)
			}
		})
	}
}

func TestCastDiagonal(t *testing.T) {
	pts := Cast(core.V(1.5, 1.5), core.V(1, 1), room.opts(false, 8))
	if len(pts.Hits) != 1 || pts.Hits[0].Kind != KindTermination {
		t.Fatalf("unexpected hits %+v", pts.Hits)
	}
	if !near(pts.Hits[0].Pos, core.V(4, 4)) {
		t.Errorf("pos = %v, expected (4, 4)", pts.Hits[0].Pos)
	}
}

func TestCastPassThrough(t *testing.T) {
	g := grid{
		"#######",
		"#..G..#",
		"#######",
	}
	pts := Cast(core.V(1.5, 1.5), core.V(1, 0), g.opts(false, 8))
	if len(pts.Hits) != 2 {
		t.Fatalf("expected glass and wall, got %+v", pts.Hits)
	}
	if pts.Hits[0].Kind != KindPass || !near(pts.Hits[0].Pos, core.V(3, 1.5)) {
		t.Errorf("first hit = %+v, expected Pass at (3, 1.5)", pts.Hits[0])
	}
	if pts.Hits[1].Kind != KindTermination || !near(pts.Hits[1].Pos, core.V(6, 1.5)) {
		t.Errorf("second hit = %+v, expected Termination at (6, 1.5)", pts.Hits[1])
	}
}

func TestCastReflection(t *testing.T) {
	g := grid{
		"#####",
		"#...M",
		"#...#",
		"#####",
	}
	// Heading east and slightly south, the mirror sends the ray back west.
	pts := Cast(core.V(1.5, 1.25), core.V(1, 0.1), g.opts(false, 8))
	if len(pts.Hits) != 2 {
		t.Fatalf("expected mirror and wall, got %+v", pts.Hits)
	}
	m := pts.Hits[0]
	if m.Kind != KindReflection || m.Side != SideLeft || !near(m.Pos, core.V(4, 1.5)) {
		t.Errorf("mirror hit = %+v", m)
	}
	w := pts.Hits[1]
	if w.Kind != KindTermination || w.Side != SideRight {
		t.Errorf("wall hit = %+v, expected Termination through the right face", w)
	}
	if !near(w.Pos, core.V(1, 1.8)) {
		t.Errorf("wall pos = %v, expected (1, 1.8)", w.Pos)
	}

	segs := pts.Segments()
	if len(segs) != 3 {
		t.Errorf("segments = %v, expected origin, bounce and end", segs)
	}
}

func TestCastNodeLimit(t *testing.T) {
	g := grid{
		"MMMM",
		"M..M",
		"MMMM",
	}
	pts := Cast(core.V(1.5, 1.5), core.V(1, 0), g.opts(false, 5))
	if len(pts.Hits) != 5 {
		t.Fatalf("expected 5 hits, got %d", len(pts.Hits))
	}
	for _, h := range pts.Hits {
		if h.Kind != KindReflection {
			t.Errorf("expected only reflections, got %s", h.Kind)
		}
	}
}

func TestSegmentsEndAtLastHit(t *testing.T) {
	tests := []struct {
		name  string
		g     grid
		limit int
		want  []core.Vec2
	}{
		{
			name:  "wall",
			g:     grid{"#####", "#.G.#", "#####"},
			limit: 8,
			want:  []core.Vec2{core.V(1.5, 1.5), core.V(4, 1.5)},
		},
		{
			name:  "node limit on glass",
			g:     grid{"#######", "#.GGG.#", "#######"},
			limit: 2,
			want:  []core.Vec2{core.V(1.5, 1.5), core.V(3, 1.5)},
		},
		{
			name:  "node limit after a bounce",
			g:     grid{"#####", "#.G.M", "#####"},
			limit: 3,
			want:  []core.Vec2{core.V(1.5, 1.5), core.V(4, 1.5), core.V(3, 1.5)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := Cast(core.V(1.5, 1.5), core.V(1, 0), tc.g.opts(false, tc.limit)).Segments()
			if len(path) != len(tc.want) {
				t.Fatalf("path = %v, expected %v", path, tc.want)
			}
			for i := range path {
				if !near(path[i], tc.want[i]) {
					t.Errorf("path[%d] = %v, expected %v", i, path[i], tc.want[i])
				}
			}
		})
	}
}

func TestCastVoid(t *testing.T) {
	g := grid{
		"...",
		"...",
	}
	pts := Cast(core.V(0.5, 0.5), core.V(1, 0), g.opts(false, 8))
	if len(pts.Hits) != 1 || pts.Hits[0].Kind != KindVoid {
		t.Fatalf("expected Void, got %+v", pts.Hits)
	}
	if !near(pts.Hits[0].Pos, core.V(3, 0.5)) {
		t.Errorf("void at %v, expected (3, 0.5)", pts.Hits[0].Pos)
	}

	// Starting outside the map is void straight away
	pts = Cast(core.V(-2, 0.5), core.V(1, 0), g.opts(false, 8))
	if len(pts.Hits) != 1 || pts.Hits[0].Kind != KindVoid || !near(pts.Hits[0].Pos, core.V(-2, 0.5)) {
		t.Errorf("expected immediate Void, got %+v", pts.Hits)
	}
}

func TestCastFinite(t *testing.T) {
	t.Run("reaches destination", func(t *testing.T) {
		pts := Cast(core.V(1.5, 1.5), core.V(1, 0.5), room.opts(true, 8))
		if len(pts.Hits) != 1 || pts.Hits[0].Kind != KindDestination {
			t.Fatalf("expected Destination, got %+v", pts.Hits)
		}
		if !near(pts.Hits[0].Pos, core.V(2.5, 2)) {
			t.Errorf("destination = %v", pts.Hits[0].Pos)
		}
		if _, _, ok := pts.Clip(); ok {
			t.Error("reaching the destination should not clip")
		}
	})

	t.Run("stops at wall", func(t *testing.T) {
		pts := Cast(core.V(3.5, 2.5), core.V(1, 0), room.opts(true, 8))
		clip, side, ok := pts.Clip()
		if !ok {
			t.Fatal("expected a clip")
		}
		if side != SideLeft {
			t.Errorf("side = %s, expected Left", side)
		}
		if !near(clip, core.V(0.5, 0)) {
			t.Errorf("clip = %v, expected (0.5, 0)", clip)
		}
	})

	t.Run("void gets destination", func(t *testing.T) {
		g := grid{".."}
		pts := Cast(core.V(0.5, 0.5), core.V(3, 0), g.opts(true, 8))
		if len(pts.Hits) != 2 {
			t.Fatalf("expected Void and Destination, got %+v", pts.Hits)
		}
		if pts.Hits[0].Kind != KindVoid || pts.Hits[1].Kind != KindDestination {
			t.Errorf("kinds = %s, %s", pts.Hits[0].Kind, pts.Hits[1].Kind)
		}

		// The edge of the grid blocks like a wall
		clip, side, ok := pts.Clip()
		if !ok {
			t.Fatal("leaving the grid should clip")
		}
		if side != SideLeft || !near(clip, core.V(1.5, 0)) {
			t.Errorf("clip = %v on %s, expected (1.5, 0) on Left", clip, side)
		}
	})

	t.Run("zero distance", func(t *testing.T) {
		pts := Cast(core.V(1.5, 1.5), core.Vec2{}, room.opts(true, 8))
		if len(pts.Hits) != 1 || pts.Hits[0].Kind != KindDestination {
			t.Errorf("expected Destination, got %+v", pts.Hits)
		}
	})
}

func TestCastBoundaryStart(t *testing.T) {
	g := grid{
		"#...",
	}
	// Standing on the x=1 line, moving west hits the wall cell at once.
	pts := Cast(core.V(1, 0.5), core.V(-1, 0), g.opts(false, 8))
	if len(pts.Hits) != 1 || pts.Hits[0].Kind != KindTermination {
		t.Fatalf("expected Termination, got %+v", pts.Hits)
	}
	if !near(pts.Hits[0].Pos, core.V(1, 0.5)) {
		t.Errorf("pos = %v, expected (1, 0.5)", pts.Hits[0].Pos)
	}

	// Moving east from the same spot walks off the map.
	pts = Cast(core.V(1, 0.5), core.V(1, 0), g.opts(false, 8))
	if len(pts.Hits) != 1 || pts.Hits[0].Kind != KindVoid {
		t.Errorf("expected Void, got %+v", pts.Hits)
	}
}

func TestCastSkipFirstCheck(t *testing.T) {
	g := grid{
		".G..#",
	}
	o := g.opts(false, 8)
	o.SkipFirstCheck = true
	pts := Cast(core.V(1.5, 0.5), core.V(1, 0), o)
	if len(pts.Hits) != 1 || pts.Hits[0].Kind != KindTermination {
		t.Errorf("starting cell should be ignored, got %+v", pts.Hits)
	}
}

func TestSide(t *testing.T) {
	tests := []struct {
		side   Side
		normal core.Vec2
		horiz  bool
	}{
		{SideRight, core.V(1, 0), false},
		{SideDown, core.V(0, 1), true},
		{SideLeft, core.V(-1, 0), false},
		{SideUp, core.V(0, -1), true},
	}
	for _, tc := range tests {
		if tc.side.UnitVector() != tc.normal {
			t.Errorf("%s normal = %v, expected %v", tc.side, tc.side.UnitVector(), tc.normal)
		}
		if tc.side.Horizontal() != tc.horiz {
			t.Errorf("%s Horizontal() = %v, expected %v", tc.side, tc.side.Horizontal(), tc.horiz)
		}
	}
}

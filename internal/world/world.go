package world

import (
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/ulvestein/internal/core"
)

// FOVStep is the change applied by one FovUp or FovDown press, in degrees.
const FOVStep = 5.0

// Settings tunes rendering and movement.
type Settings struct {
	FOV       float64 // Horizontal field of view in degrees
	MaxNodes  int     // Node limit for render casts
	Ceiling   core.RGB
	Floor     core.RGB
	Gun       bool    // Draw the weapon overlay
	TurnSpeed float64 // Degrees per second
	WalkSpeed float64 // Cells per second
	Clip      bool    // Collide with walls
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		FOV:       65,
		MaxNodes:  16,
		Ceiling:   core.RGB{R: 0x38, G: 0x38, B: 0x38},
		Floor:     core.RGB{R: 0x70, G: 0x70, B: 0x70},
		Gun:       true,
		TurnSpeed: 105,
		WalkSpeed: 2.3,
		Clip:      true,
	}
}

// Player is the camera.
type Player struct {
	Pos   core.Vec2
	Angle float64 // Radians, in [0, 2π)
}

// Dir returns the unit view direction.
func (p Player) Dir() core.Vec2 {
	return core.UnitFromAngle(p.Angle)
}

// World is one running game on a map.
type World struct {
	Map    *Map
	Player Player
	Clip   bool

	settings Settings
	fov      float64
	distance float64
	logger   *log.Logger

	// Size of the last frame drawn, for the vertical FOV
	viewW, viewH int

	// Gun overlay, regenerated when the frame size changes
	gun          *Texture
	gunW, gunH   int
	layerScratch []drawable
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger for gameplay events.
func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// New places a player on the map spawn.
func New(m *Map, s Settings, opts ...Option) *World {
	if s.MaxNodes <= 0 {
		s.MaxNodes = DefaultSettings().MaxNodes
	}
	x, y, angle := m.Spawn()
	viewW, viewH := core.DefaultConfig().FrameSize()
	w := &World{
		Map: m,
		Player: Player{
			Pos:   core.V(float64(x)+0.5, float64(y)+0.5),
			Angle: core.WrapAngle(angle),
		},
		Clip:     s.Clip,
		settings: s,
		fov:      NewFov(s.FOV, 1, 1).Degrees,
		logger:   log.New(io.Discard),
		viewW:    viewW,
		viewH:    viewH,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger.Info("map loaded", "id", m.ID, "name", m.Name, "size", [2]int{m.Width, m.Height})
	return w
}

// FOV returns the current field of view in degrees.
func (w *World) FOV() float64 {
	return w.fov
}

// SetFOV sets the field of view, clamped to the allowed range.
func (w *World) SetFOV(deg float64) {
	w.fov = NewFov(deg, 1, 1).Degrees
}

// Distance returns the total distance walked.
func (w *World) Distance() float64 {
	return w.distance
}

// Place moves the player, e.g. when resuming a save.
func (w *World) Place(pos core.Vec2, angle float64) {
	w.Player.Pos = pos
	w.Player.Angle = core.WrapAngle(angle)
}

// Update advances the world by dt seconds with the given held actions.
func (w *World) Update(dt float64, in core.InputFrame) {
	if in.Has(core.ActionToggleClip) {
		w.Clip = !w.Clip
		w.logger.Info("clip toggled", "clip", w.Clip)
	}
	if in.Has(core.ActionFovUp) || in.Has(core.ActionFovDown) {
		delta := FOVStep
		if in.Has(core.ActionFovDown) {
			delta = -FOVStep
		}
		fov := NewFov(w.fov, w.viewW, w.viewH).Change(delta, w.viewW, w.viewH)
		w.fov = fov.Degrees
		w.logger.Info("fov changed",
			"fov", math.Round(fov.Degrees),
			"vertical", math.Round(fov.Vertical*180/math.Pi),
		)
	}

	left, right := in.Has(core.ActionTurnLeft), in.Has(core.ActionTurnRight)
	if left != right {
		turn := w.settings.TurnSpeed * math.Pi / 180 * dt
		if left {
			turn = -turn
		}
		w.Player.Angle = core.WrapAngle(w.Player.Angle + turn)
	}

	fwd, back := in.Has(core.ActionForward), in.Has(core.ActionBackward)
	sl, sr := in.Has(core.ActionStrafeLeft), in.Has(core.ActionStrafeRight)
	if fwd == back && sl == sr {
		return
	}

	dir := w.Player.Dir()
	dp := dir.Scale(axis(fwd, back)).Add(dir.Hat().Scale(axis(sr, sl)))
	dp = dp.SetLen(dt * w.settings.WalkSpeed)

	from := w.Player.Pos
	to := from.Add(dp)
	if w.Clip && !w.insideSolid(from) {
		to = w.Map.MoveCast(from, dp)
	}
	w.Player.Pos = to
	w.distance += to.Sub(from).Norm()
}

// axis returns +1, -1 or 0 for a pair of opposing keys.
func axis(pos, neg bool) float64 {
	switch {
	case pos && !neg:
		return 1
	case neg && !pos:
		return -1
	default:
		return 0
	}
}

// insideSolid reports whether p is in a solid cell. A player left inside a
// wall by noclip may walk out freely.
func (w *World) insideSolid(p core.Vec2) bool {
	mat, ok := w.Map.Get(p.Floor())
	return ok && mat.Solid()
}

// drawable is one layer of a column, wall or sprite.
type drawable struct {
	dist  float64
	u     float64
	tex   *Texture
	thing bool
}

// Draw renders the view into f.
func (w *World) Draw(f *core.Frame) {
	width, height := f.Width(), f.Height()
	fov := NewFov(w.fov, width, height)
	w.viewW, w.viewH = width, height

	half := height / 2
	f.FillRows(0, half, w.settings.Ceiling)
	f.FillRows(half, height, w.settings.Floor)

	dir := w.Player.Dir()
	right := dir.Hat()
	first := dir.Div(fov.Tan).Sub(right)
	halfWidth := float64(width) / 2

	for x := 0; x < width; x++ {
		ray := first.Add(right.Scale(float64(x) / halfWidth))
		cos := ray.Dot(dir) / ray.Norm()

		layers := w.column(ray)
		for _, d := range layers {
			lineHeight := saturate(fov.HeightCoefficient / (d.dist * cos))
			if d.thing {
				// Sprites stand on the floor: from the horizon down by half a wall
				h := lineHeight / 2
				d.tex.DrawColumn(f, x, half, h, d.u, 0, height)
				continue
			}
			// Halving each term avoids overflow for huge heights
			top := half - lineHeight/2
			bottom := half + lineHeight/2
			d.tex.DrawColumn(f, x, top, bottom-top, d.u, 0, height)
		}
	}

	if w.settings.Gun {
		gun := w.gunFor(width, height)
		gun.DrawAt(f, (width-gun.Width())/2, height-gun.Height())
	}
}

// column collects the layers for one ray sorted farthest first.
func (w *World) column(ray core.Vec2) []drawable {
	layers, path := w.Map.RenderCast(w.Player.Pos, ray, w.settings.MaxNodes)

	out := w.layerScratch[:0]
	for _, l := range layers {
		mat := w.Map.Material(l.Mat)
		if mat == nil {
			continue
		}
		out = append(out, drawable{dist: l.Dist, u: l.U, tex: mat.Texture(l.Dark)})
	}

	things := w.Map.Things()
	base := 0.0
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		for j := range things {
			if d, u, ok := things[j].Hit(a, b); ok {
				out = append(out, drawable{dist: base + d, u: u, tex: things[j].Texture(), thing: true})
			}
		}
		base += b.Sub(a).Norm()
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].dist > out[j].dist })
	w.layerScratch = out
	return out
}

// saturate converts a projected height to pixels, clamping infinities.
func saturate(h float64) int {
	if math.IsInf(h, 0) || math.IsNaN(h) || h > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(h)
}

func (w *World) gunFor(width, height int) *Texture {
	if w.gun == nil || w.gunW != width || w.gunH != height {
		w.gun = gunTexture(width, height)
		w.gunW, w.gunH = width, height
	}
	return w.gun
}

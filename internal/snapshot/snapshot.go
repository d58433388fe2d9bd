// Package snapshot exports rendered frames as PNG images, optionally with a
// top-down minimap drawn over the view.
package snapshot

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/gg"
	"github.com/vovakirdan/ulvestein/internal/core"
	"github.com/vovakirdan/ulvestein/internal/world"
)

const (
	minimapMargin  = 4.0
	minimapMinCell = 2.0
)

// Render draws the world into a new frame of the given size.
func Render(w *world.World, width, height int) *core.Frame {
	f := core.NewFrame(width, height)
	w.Draw(f)
	return f
}

// Compose wraps the frame in a drawing context and adds the minimap when
// asked. The caller closes the context.
func Compose(f *core.Frame, w *world.World, minimap bool) (*gg.Context, error) {
	dc := gg.NewContextForImage(f.Image())
	if minimap {
		if err := drawMinimap(dc, w); err != nil {
			_ = dc.Close()
			return nil, err
		}
	}
	return dc, nil
}

// SavePNG writes the frame to path, creating parent directories.
func SavePNG(f *core.Frame, w *world.World, path string, minimap bool) error {
	if f.Width() == 0 || f.Height() == 0 {
		return fmt.Errorf("snapshot: empty frame %dx%d", f.Width(), f.Height())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot: cannot create directory: %w", err)
	}

	dc, err := Compose(f, w, minimap)
	if err != nil {
		return err
	}
	defer func() { _ = dc.Close() }()

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("snapshot: cannot save %s: %w", path, err)
	}
	return nil
}

// Filename returns a screenshot file name for a map at the given time.
func Filename(dir, mapID string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.png", mapID, now.Format("20060102-150405")))
}

// CellSize returns the minimap cell size in pixels for a frame.
func CellSize(m *world.Map, width, height int) float64 {
	longest := max(m.Width, m.Height)
	if longest == 0 {
		return minimapMinCell
	}
	size := math.Floor(float64(min(width, height)) / 3 / float64(longest))
	return math.Max(size, minimapMinCell)
}

// MinimapPoint converts a world position to minimap pixel coordinates.
func MinimapPoint(m *world.Map, pos core.Vec2, width, height int) (float64, float64) {
	cell := CellSize(m, width, height)
	return minimapMargin + pos.X*cell, minimapMargin + pos.Y*cell
}

func drawMinimap(dc *gg.Context, w *world.World) error {
	m := w.Map
	width, height := dc.Width(), dc.Height()
	cell := CellSize(m, width, height)

	// Backdrop
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(minimapMargin, minimapMargin, float64(m.Width)*cell, float64(m.Height)*cell)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("snapshot: minimap backdrop: %w", err)
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			id, ok := m.Get(x, y)
			if !ok || !id.Solid() {
				continue
			}
			setColor(dc, cellColor(m.Material(id)), 1)
			dc.DrawRectangle(minimapMargin+float64(x)*cell, minimapMargin+float64(y)*cell, cell, cell)
			if err := dc.Fill(); err != nil {
				return fmt.Errorf("snapshot: minimap cell: %w", err)
			}
		}
	}

	things := m.Things()
	for i := range things {
		tx, ty := MinimapPoint(m, things[i].Pos, width, height)
		dc.SetRGB(0.9, 0.75, 0.2)
		dc.DrawCircle(tx, ty, math.Max(things[i].Radius*cell, 1))
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("snapshot: minimap thing: %w", err)
		}
	}

	// View direction first so the player dot stays on top
	px, py := MinimapPoint(m, w.Player.Pos, width, height)
	dir := w.Player.Dir().Scale(cell * 1.5)
	dc.SetRGB(1, 1, 0)
	dc.SetLineWidth(math.Max(cell/4, 1))
	dc.DrawLine(px, py, px+dir.X, py+dir.Y)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("snapshot: minimap direction: %w", err)
	}

	dc.SetRGB(1, 0, 0)
	dc.DrawCircle(px, py, math.Max(cell/3, 2))
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("snapshot: minimap player: %w", err)
	}
	return nil
}

func cellColor(mat *world.Material) core.RGB {
	if mat == nil {
		return core.RGB{R: 0x80, G: 0x80, B: 0x80}
	}
	if mat.Mirror {
		return core.RGB{R: 0x9c, G: 0xd0, B: 0xe8}
	}
	if tex := mat.Texture(false); tex != nil {
		return tex.Sample(0.5, 0.5).RGB()
	}
	return core.RGB{R: 0x80, G: 0x80, B: 0x80}
}

func setColor(dc *gg.Context, c core.RGB, alpha float64) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, alpha)
}

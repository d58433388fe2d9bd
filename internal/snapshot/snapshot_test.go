package snapshot

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/ulvestein/internal/world"
)

const testMap = `
id: box
name: Box
materials:
  - {symbol: "#", id: 1, texture: brick}
layout:
  - "#####"
  - "#>..#"
  - "#...#"
  - "#...#"
  - "#####"
`

func newTestWorld(t *testing.T) *world.World {
	t.Helper()
	m, err := world.ParseMap([]byte(testMap), world.LoadOptions{})
	if err != nil {
		t.Fatalf("ParseMap failed: %v", err)
	}
	s := world.DefaultSettings()
	s.Gun = false
	return world.New(m, s)
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("cannot open %s: %v", path, err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("cannot decode %s: %v", path, err)
	}
	return img
}

func rgb8(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -1 && d <= 1
}

func TestRender(t *testing.T) {
	w := newTestWorld(t)
	f := Render(w, 64, 48)
	if f.Width() != 64 || f.Height() != 48 {
		t.Fatalf("frame size %dx%d", f.Width(), f.Height())
	}
	// Top row is ceiling unless a wall covers it; either way it is opaque
	if f.At(0, 0).A != 0xff {
		t.Error("rendered pixels should be opaque")
	}
}

func TestSavePNGWithoutMinimap(t *testing.T) {
	w := newTestWorld(t)
	f := Render(w, 80, 60)
	path := filepath.Join(t.TempDir(), "shots", "view.png")

	if err := SavePNG(f, w, path, false); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	img := decodePNG(t, path)
	if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 60 {
		t.Fatalf("image size %v", img.Bounds())
	}
	for _, p := range [][2]int{{0, 0}, {40, 30}, {79, 59}} {
		want := f.At(p[0], p[1])
		r, g, b := rgb8(img, p[0], p[1])
		if !near(r, want.R) || !near(g, want.G) || !near(b, want.B) {
			t.Errorf("pixel %v = (%d,%d,%d), frame has %v", p, r, g, b, want)
		}
	}
}

func TestSavePNGWithMinimap(t *testing.T) {
	w := newTestWorld(t)
	f := Render(w, 200, 150)
	path := filepath.Join(t.TempDir(), "map.png")

	if err := SavePNG(f, w, path, true); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	img := decodePNG(t, path)

	// 150/3/5 = 10 px cells, player at (1.5, 1.5) -> (19, 19)
	if c := CellSize(w.Map, 200, 150); c != 10 {
		t.Fatalf("cell size = %v, expected 10", c)
	}
	px, py := MinimapPoint(w.Map, w.Player.Pos, 200, 150)
	if px != 19 || py != 19 {
		t.Fatalf("player point = (%v, %v)", px, py)
	}

	r, g, b := rgb8(img, 19, 19)
	if r < 200 || g > 60 || b > 60 {
		t.Errorf("player dot = (%d,%d,%d), expected red", r, g, b)
	}

	// Facing east: the direction line runs right of the dot
	r, g, b = rgb8(img, 30, 19)
	if r < 200 || g < 200 || b > 60 {
		t.Errorf("direction line = (%d,%d,%d), expected yellow", r, g, b)
	}
}

func TestSavePNGEmptyFrame(t *testing.T) {
	w := newTestWorld(t)
	f := Render(w, 0, 0)
	if err := SavePNG(f, w, filepath.Join(t.TempDir(), "x.png"), false); err == nil {
		t.Error("expected error for empty frame")
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	got := Filename("/tmp/shots", "e1m1", now)
	want := filepath.Join("/tmp/shots", "e1m1-20240309-140507.png")
	if got != want {
		t.Errorf("Filename = %q, expected %q", got, want)
	}
}

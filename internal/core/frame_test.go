package core

import (
	"testing"
	"time"
)

func TestFrameIndexCoords(t *testing.T) {
	f := NewFrame(320, 240)

	x, y := f.Coords(124)
	if f.Index(x, y) != 124 {
		t.Errorf("Index(Coords(124)) = %d", f.Index(x, y))
	}

	x, y = f.Coords(f.Index(17, 9))
	if x != 17 || y != 9 {
		t.Errorf("Coords(Index(17, 9)) = (%d, %d)", x, y)
	}
}

func TestFrameSetRGBA(t *testing.T) {
	f := NewFrame(4, 4)
	f.Fill(RGB{0, 0, 0})

	f.SetRGBA(1, 1, RGB{255, 255, 255}.Alpha(0))
	if f.At(1, 1) != (RGBA{0, 0, 0, 255}) {
		t.Errorf("alpha 0 should not draw, got %v", f.At(1, 1))
	}

	f.SetRGBA(1, 1, RGB{10, 20, 30}.Alpha(255))
	if f.At(1, 1) != (RGBA{10, 20, 30, 255}) {
		t.Errorf("opaque write failed, got %v", f.At(1, 1))
	}

	f.SetRGBA(2, 2, RGB{255, 255, 255}.Alpha(128))
	got := f.At(2, 2)
	if got.R != 128 || got.A != 255 {
		t.Errorf("blended pixel = %v, expected 128 grey", got)
	}

	// Out of bounds must not panic
	f.SetRGB(-1, 0, White)
	f.SetRGBA(4, 4, White.Alpha(100))
	if f.At(10, 10) != Transparent {
		t.Error("out of bounds At should be transparent")
	}
}

func TestFrameFillRows(t *testing.T) {
	f := NewFrame(3, 4)
	f.FillRows(0, 2, RGB{1, 1, 1})
	f.FillRows(2, 10, RGB{2, 2, 2})

	if f.At(2, 1).R != 1 || f.At(0, 3).R != 2 {
		t.Errorf("FillRows wrote wrong colours: %v %v", f.At(2, 1), f.At(0, 3))
	}
}

func TestFrameImageSharesPixels(t *testing.T) {
	f := NewFrame(2, 2)
	img := f.Image()
	f.SetRGB(1, 1, RGB{9, 8, 7})
	r, g, b, _ := img.At(1, 1).RGBA()
	if r>>8 != 9 || g>>8 != 8 || b>>8 != 7 {
		t.Errorf("image does not share frame pixels")
	}
}

func TestFPSCounter(t *testing.T) {
	var c FPSCounter
	start := time.Unix(0, 0)

	if c.Tick(start) != 0 {
		t.Error("first tick should report 0")
	}
	for i := 1; i <= 10; i++ {
		c.Tick(start.Add(time.Duration(i) * 20 * time.Millisecond))
	}
	if fps := c.FPS(); fps < 49.9 || fps > 50.1 {
		t.Errorf("FPS = %f, expected 50", fps)
	}
	if len(c.samples) != fpsSamples {
		t.Errorf("kept %d samples, expected %d", len(c.samples), fpsSamples)
	}
}

func TestInputStateHold(t *testing.T) {
	s := NewInputState(100 * time.Millisecond)
	now := time.Unix(100, 0)

	s.Press(ActionForward, now)
	s.Press(ActionToggleClip, now)

	f := s.Frame(now.Add(50 * time.Millisecond))
	if !f.Has(ActionForward) {
		t.Error("forward should be held inside the hold window")
	}
	if !f.Has(ActionToggleClip) {
		t.Error("one-shot action should be delivered")
	}

	f = s.Frame(now.Add(60 * time.Millisecond))
	if f.Has(ActionToggleClip) {
		t.Error("one-shot action should be delivered once")
	}

	f = s.Frame(now.Add(200 * time.Millisecond))
	if f.Has(ActionForward) {
		t.Error("forward should be released after the hold window")
	}
}

func TestRuntimeFrameSize(t *testing.T) {
	w, h := RuntimeConfig{ScreenW: 80, ScreenH: 24}.FrameSize()
	if w != 80 || h != 46 {
		t.Errorf("FrameSize = %dx%d, expected 80x46", w, h)
	}
}

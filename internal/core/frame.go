package core

import "image"

// Frame is an RGBA pixel framebuffer, 4 bytes per pixel, rows top to bottom.
// The renderer draws into it every frame; the platform presents it.
type Frame struct {
	width  int
	height int
	pix    []uint8
}

// NewFrame allocates a frame filled with opaque black.
func NewFrame(width, height int) *Frame {
	f := &Frame{}
	f.Resize(width, height)
	return f
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int {
	return f.width
}

// Height returns the frame height in pixels.
func (f *Frame) Height() int {
	return f.height
}

// Pix returns the raw RGBA bytes.
func (f *Frame) Pix() []uint8 {
	return f.pix
}

// Resize reallocates the buffer. Content is discarded.
func (f *Frame) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	f.width = width
	f.height = height
	f.pix = make([]uint8, width*height*4)
	f.Fill(Black)
}

// Index converts pixel coordinates to a pixel index.
func (f *Frame) Index(x, y int) int {
	return y*f.width + x
}

// Coords converts a pixel index back to coordinates.
func (f *Frame) Coords(i int) (int, int) {
	if f.width == 0 {
		return 0, 0
	}
	return i % f.width, i / f.width
}

// Fill paints every pixel with an opaque colour.
func (f *Frame) Fill(c RGB) {
	for i := 0; i < len(f.pix); i += 4 {
		f.pix[i] = c.R
		f.pix[i+1] = c.G
		f.pix[i+2] = c.B
		f.pix[i+3] = 0xff
	}
}

// FillRows paints rows [from, to) with an opaque colour.
func (f *Frame) FillRows(from, to int, c RGB) {
	from = Clamp(from, 0, f.height)
	to = Clamp(to, 0, f.height)
	for i := from * f.width * 4; i < to*f.width*4; i += 4 {
		f.pix[i] = c.R
		f.pix[i+1] = c.G
		f.pix[i+2] = c.B
		f.pix[i+3] = 0xff
	}
}

// SetRGB writes an opaque pixel. Out-of-bounds writes are ignored.
func (f *Frame) SetRGB(x, y int, c RGB) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	i := f.Index(x, y) * 4
	f.pix[i] = c.R
	f.pix[i+1] = c.G
	f.pix[i+2] = c.B
	f.pix[i+3] = 0xff
}

// SetRGBA blends c over the existing pixel.
// Fully transparent colours are skipped; opaque ones are written directly.
func (f *Frame) SetRGBA(x, y int, c RGBA) {
	switch c.A {
	case 0:
		return
	case 255:
		f.SetRGB(x, y, c.RGB())
		return
	}
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	f.SetRGB(x, y, c.Over(f.At(x, y)).RGB())
}

// At returns the pixel at (x, y), transparent when out of bounds.
func (f *Frame) At(x, y int) RGBA {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return Transparent
	}
	i := f.Index(x, y) * 4
	return RGBA{R: f.pix[i], G: f.pix[i+1], B: f.pix[i+2], A: f.pix[i+3]}
}

// Image returns an image.RGBA sharing the frame's pixels.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.pix,
		Stride: f.width * 4,
		Rect:   image.Rect(0, 0, f.width, f.height),
	}
}

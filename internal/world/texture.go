package world

import (
	"image"
	"math"

	"github.com/vovakirdan/ulvestein/internal/core"
)

// Texture is a row-major block of RGBA texels.
type Texture struct {
	width  int
	height int
	pix    []core.RGBA
}

// NewTexture creates a fully transparent texture.
func NewTexture(width, height int) *Texture {
	width = max(width, 1)
	height = max(height, 1)
	return &Texture{
		width:  width,
		height: height,
		pix:    make([]core.RGBA, width*height),
	}
}

// TextureFromImage copies an image into a texture.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	t := NewTexture(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if a == 0 {
				continue
			}
			// Un-premultiply
			t.pix[y*t.width+x] = core.RGBA{
				R: uint8(r * 0xff / a),
				G: uint8(g * 0xff / a),
				B: uint8(bl * 0xff / a),
				A: uint8(a >> 8),
			}
		}
	}
	return t
}

// Width returns the texture width in texels.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the texture height in texels.
func (t *Texture) Height() int {
	return t.height
}

// Set writes a texel. Out-of-range writes are ignored.
func (t *Texture) Set(x, y int, c core.RGBA) {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return
	}
	t.pix[y*t.width+x] = c
}

// At returns a texel, transparent when out of range.
func (t *Texture) At(x, y int) core.RGBA {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return core.Transparent
	}
	return t.pix[y*t.width+x]
}

// Sample returns the texel at texture coordinates u, v.
// Both wrap around, so any real value is valid.
func (t *Texture) Sample(u, v float64) core.RGBA {
	x := int(math.Floor(core.Fract(u) * float64(t.width)))
	y := int(math.Floor(core.Fract(v) * float64(t.height)))
	// Fract can round up to exactly 1 for tiny negative inputs
	x = min(x, t.width-1)
	y = min(y, t.height-1)
	return t.pix[y*t.width+x]
}

// Darken returns a copy with every colour channel scaled by f/255.
func (t *Texture) Darken(f uint8) *Texture {
	d := &Texture{width: t.width, height: t.height, pix: make([]core.RGBA, len(t.pix))}
	for i, c := range t.pix {
		d.pix[i] = c.Scale(f)
	}
	return d
}

// DrawColumn draws one vertical strip of the texture at column u, stretched
// over rows [top, top+height). Only rows inside [clipTop, clipBottom) are
// touched.
func (t *Texture) DrawColumn(f *core.Frame, x, top, height int, u float64, clipTop, clipBottom int) {
	if height <= 0 {
		return
	}
	from := max(top, clipTop, 0)
	to := min(top+height, clipBottom, f.Height())
	for y := from; y < to; y++ {
		v := float64(y-top) / float64(height)
		f.SetRGBA(x, y, t.Sample(u, v))
	}
}

// DrawAt blits the whole texture with its top-left corner at x, y.
func (t *Texture) DrawAt(f *core.Frame, x, y int) {
	for i, c := range t.pix {
		f.SetRGBA(x+i%t.width, y+i/t.width, c)
	}
}

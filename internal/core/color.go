package core

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is an opaque 24-bit colour.
type RGB struct {
	R, G, B uint8
}

// RGBA is a colour with straight (non-premultiplied) alpha.
type RGBA struct {
	R, G, B, A uint8
}

// Predefined colours used by the renderer and procedural textures.
var (
	Black       = RGB{0x00, 0x00, 0x00}
	White       = RGB{0xff, 0xff, 0xff}
	Transparent = RGBA{}
)

// FracMul multiplies two bytes as fractions of 255: a * b / 255.
func FracMul(a, b uint8) uint8 {
	return uint8(uint16(a) * uint16(b) / 255)
}

// Alpha attaches an alpha value to the colour.
func (c RGB) Alpha(a uint8) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// Scale multiplies every channel by a/255.
func (c RGB) Scale(a uint8) RGB {
	return RGB{R: FracMul(c.R, a), G: FracMul(c.G, a), B: FracMul(c.B, a)}
}

// Hex formats the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGB drops the alpha channel.
func (c RGBA) RGB() RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// Scale multiplies the colour channels by a/255 and keeps alpha.
func (c RGBA) Scale(a uint8) RGBA {
	return c.RGB().Scale(a).Alpha(c.A)
}

// Over composites c on top of dst (source-over).
func (c RGBA) Over(dst RGBA) RGBA {
	switch {
	case dst.A == 0 || c.A == 255:
		return c
	case c.A == 0:
		return dst
	case dst.A == 255:
		inv := 255 - c.A
		return RGBA{
			R: FracMul(c.R, c.A) + FracMul(dst.R, inv),
			G: FracMul(c.G, c.A) + FracMul(dst.G, inv),
			B: FracMul(c.B, c.A) + FracMul(dst.B, inv),
			A: 255,
		}
	}

	// General case, computed in fractions of 255*255.
	sa := uint32(c.A)
	da := uint32(dst.A) * (255 - sa) / 255
	outA := sa + da
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*sa + uint32(d)*da) / outA)
	}
	return RGBA{R: mix(c.R, dst.R), G: mix(c.G, dst.G), B: mix(c.B, dst.B), A: uint8(outA)}
}

// ParseHexColor parses #rgb or #rrggbb (the leading # is optional).
func ParseHexColor(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid colour %q: want #rgb or #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

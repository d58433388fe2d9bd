package world

import (
	"sort"

	"github.com/vovakirdan/ulvestein/internal/core"
)

// Size of generated wall and sprite textures.
const procSize = 64

// builtins maps a texture name to its generator.
var builtins = map[string]func() *Texture{
	"brick":  brickTexture,
	"stone":  stoneTexture,
	"wood":   woodTexture,
	"metal":  metalTexture,
	"glass":  glassTexture,
	"mirror": mirrorTexture,
	"barrel": barrelTexture,
	"pillar": pillarTexture,
}

// Builtin returns a freshly generated built-in texture.
func Builtin(name string) (*Texture, bool) {
	gen, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return gen(), true
}

// BuiltinNames lists the built-in texture names in order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// noise returns a stable pseudo-random byte for a texel.
func noise(x, y, seed int) uint8 {
	h := uint32(x)*374761393 + uint32(y)*668265263 + uint32(seed)*2246822519
	h = (h ^ (h >> 13)) * 1274126177
	return uint8(h ^ (h >> 16))
}

// jitter shifts a colour by up to ±spread using texel noise.
func jitter(c core.RGB, x, y, seed, spread int) core.RGB {
	d := int(noise(x, y, seed))%(2*spread+1) - spread
	ch := func(v uint8) uint8 {
		return uint8(core.Clamp(int(v)+d, 0, 255))
	}
	return core.RGB{R: ch(c.R), G: ch(c.G), B: ch(c.B)}
}

func fill(t *Texture, fn func(x, y int) core.RGBA) *Texture {
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			t.pix[y*t.width+x] = fn(x, y)
		}
	}
	return t
}

func brickTexture() *Texture {
	mortar := core.RGB{R: 0x9a, G: 0x94, B: 0x88}
	brick := core.RGB{R: 0x9c, G: 0x3b, B: 0x2a}
	return fill(NewTexture(procSize, procSize), func(x, y int) core.RGBA {
		row := y / 16
		offset := 0
		if row%2 == 1 {
			offset = 16
		}
		if y%16 == 15 || (x+offset)%32 == 31 {
			return jitter(mortar, x, y, 1, 6).Alpha(255)
		}
		return jitter(brick, x, y, 2, 14).Alpha(255)
	})
}

func stoneTexture() *Texture {
	base := core.RGB{R: 0x7a, G: 0x7a, B: 0x80}
	return fill(NewTexture(procSize, procSize), func(x, y int) core.RGBA {
		bx := (x + (y/21)*11) % 22
		if y%21 == 20 || bx == 21 {
			return core.RGB{R: 0x3c, G: 0x3c, B: 0x40}.Alpha(255)
		}
		// Each block gets its own shade
		shade := int(noise((x+(y/21)*11)/22, y/21, 3)%32) - 16
		c := core.RGB{
			R: uint8(int(base.R) + shade),
			G: uint8(int(base.G) + shade),
			B: uint8(int(base.B) + shade),
		}
		return jitter(c, x, y, 4, 10).Alpha(255)
	})
}

func woodTexture() *Texture {
	base := core.RGB{R: 0x8b, G: 0x5a, B: 0x2b}
	return fill(NewTexture(procSize, procSize), func(x, y int) core.RGBA {
		if x%16 == 0 {
			return core.RGB{R: 0x4a, G: 0x2e, B: 0x14}.Alpha(255)
		}
		c := base
		// Grain runs along the planks
		if (y+int(noise(x/16, 0, 5)%8))%9 < 2 {
			c = c.Scale(0xd8)
		}
		return jitter(c, x, y, 6, 8).Alpha(255)
	})
}

func metalTexture() *Texture {
	base := core.RGB{R: 0x6e, G: 0x78, B: 0x84}
	return fill(NewTexture(procSize, procSize), func(x, y int) core.RGBA {
		cx, cy := x%32, y%32
		if (cx == 4 || cx == 27) && (cy == 4 || cy == 27) {
			return core.RGB{R: 0xc8, G: 0xcc, B: 0xd0}.Alpha(255)
		}
		if cx == 0 || cy == 0 {
			return core.RGB{R: 0x40, G: 0x46, B: 0x4e}.Alpha(255)
		}
		return jitter(base, x, y, 7, 4).Alpha(255)
	})
}

func glassTexture() *Texture {
	return fill(NewTexture(procSize, procSize), func(x, y int) core.RGBA {
		if x < 2 || y < 2 || x >= procSize-2 || y >= procSize-2 {
			return core.RGB{R: 0x50, G: 0x60, B: 0x68}.Alpha(230)
		}
		// A diagonal glint
		if d := x - y; d > 8 && d < 12 {
			return core.RGB{R: 0xe8, G: 0xf8, B: 0xff}.Alpha(110)
		}
		return core.RGB{R: 0xa8, G: 0xd8, B: 0xe8}.Alpha(56)
	})
}

func mirrorTexture() *Texture {
	return fill(NewTexture(procSize, procSize), func(x, y int) core.RGBA {
		if x < 2 || y < 2 || x >= procSize-2 || y >= procSize-2 {
			return core.RGB{R: 0xb0, G: 0x90, B: 0x40}.Alpha(255)
		}
		return core.RGB{R: 0xd0, G: 0xe0, B: 0xf0}.Alpha(36)
	})
}

func barrelTexture() *Texture {
	body := core.RGB{R: 0x3e, G: 0x6b, B: 0x2f}
	band := core.RGB{R: 0x2a, G: 0x2a, B: 0x2a}
	return fill(NewTexture(procSize, procSize), func(x, y int) core.RGBA {
		// Bulge: wider in the middle rows
		mid := procSize / 2
		half := 18 + (mid-abs(y-mid))/6
		if abs(x-mid) > half || y < 6 {
			return core.Transparent
		}
		if y%20 < 3 {
			return band.Alpha(255)
		}
		shade := uint8(255 - abs(x-mid)*3)
		return jitter(body, x, y, 8, 6).Scale(shade).Alpha(255)
	})
}

func pillarTexture() *Texture {
	stone := core.RGB{R: 0xb8, G: 0xb0, B: 0x9c}
	return fill(NewTexture(procSize, procSize), func(x, y int) core.RGBA {
		mid := procSize / 2
		half := 8
		if y < 6 || y >= procSize-6 {
			half = 12 // Capital and base
		}
		if abs(x-mid) > half {
			return core.Transparent
		}
		shade := uint8(255 - abs(x-mid)*6)
		return jitter(stone, x, y, 9, 5).Scale(shade).Alpha(255)
	})
}

// gunTexture draws the weapon overlay sized for a w x h frame.
func gunTexture(w, h int) *Texture {
	tw := max(w/5, 4)
	th := max(h/3, 4)
	metal := core.RGB{R: 0x55, G: 0x58, B: 0x5c}
	grip := core.RGB{R: 0x5a, G: 0x3a, B: 0x22}
	return fill(NewTexture(tw, th), func(x, y int) core.RGBA {
		fx := float64(x) / float64(tw)
		fy := float64(y) / float64(th)
		switch {
		case fx > 0.4 && fx < 0.6 && fy < 0.6:
			// Barrel, lit from the left
			if fx < 0.45 {
				return metal.Scale(0xff).Alpha(255)
			}
			return metal.Scale(0xc0).Alpha(255)
		case fx > 0.3 && fx < 0.7 && fy >= 0.6:
			return jitter(grip, x, y, 10, 6).Alpha(255)
		default:
			return core.Transparent
		}
	})
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

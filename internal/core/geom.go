// Package core provides the fundamental types shared by the renderer and the
// platform: vectors, colours, the pixel framebuffer, the terminal cell screen
// and input frames. It has no external dependencies (especially no Bubble Tea)
// to keep the world logic pure and testable.
package core

import "math"

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// WrapAngle maps an angle in radians into [0, 2π).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Fract returns the fractional part of x, always in [0, 1).
func Fract(x float64) float64 {
	return x - math.Floor(x)
}

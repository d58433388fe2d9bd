package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
	}

	for _, tc := range tests {
		got := WrapAngle(tc.in)
		if math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("WrapAngle(%f) = %f, expected %f", tc.in, got, tc.expected)
		}
		if got < 0 || got >= 2*math.Pi {
			t.Errorf("WrapAngle(%f) = %f, outside [0, 2pi)", tc.in, got)
		}
	}
}

func TestFract(t *testing.T) {
	if got := Fract(2.25); got != 0.25 {
		t.Errorf("Fract(2.25) = %f, expected 0.25", got)
	}
	if got := Fract(-0.25); got != 0.75 {
		t.Errorf("Fract(-0.25) = %f, expected 0.75", got)
	}
}

package core

import "time"

// fpsSamples is the number of frame intervals averaged by FPSCounter.
const fpsSamples = 4

// FPSCounter keeps a rolling average of the frame rate.
type FPSCounter struct {
	last    time.Time
	samples []float64
}

// Tick records a frame drawn at time now and returns the average FPS.
// The first call only sets the reference time and returns 0.
func (c *FPSCounter) Tick(now time.Time) float64 {
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt <= 0 {
		return c.FPS()
	}

	c.samples = append(c.samples, 1/dt)
	if len(c.samples) > fpsSamples {
		c.samples = c.samples[len(c.samples)-fpsSamples:]
	}
	return c.FPS()
}

// FPS returns the current average without recording a frame.
func (c *FPSCounter) FPS() float64 {
	if len(c.samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range c.samples {
		sum += s
	}
	return sum / float64(len(c.samples))
}

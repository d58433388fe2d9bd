package core

// RuntimeConfig contains the platform parameters the game loop runs with.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Simulation ticks per second (default 60)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// StatusLines is the number of terminal rows reserved below the view.
const StatusLines = 1

// FrameSize returns the framebuffer size for the screen: one pixel per
// column and two pixels per row (half blocks), minus the status line.
func (c RuntimeConfig) FrameSize() (int, int) {
	w := max(c.ScreenW, 1)
	h := max((c.ScreenH-StatusLines)*2, 2)
	return w, h
}

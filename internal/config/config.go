// Package config provides YAML-based settings loading for the renderer,
// the player and input handling.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/ulvestein/internal/core"
	"github.com/vovakirdan/ulvestein/internal/world"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid value")

// Config contains all settings.
type Config struct {
	Render   RenderConfig   `yaml:"render"`
	Player   PlayerConfig   `yaml:"player"`
	Input    InputConfig    `yaml:"input"`
	Textures TexturesConfig `yaml:"textures"`
}

// RenderConfig defines how the view is drawn.
type RenderConfig struct {
	FOV        float64 `yaml:"fov"`         // Degrees
	MaxNodes   int     `yaml:"max_nodes"`   // Surfaces recorded per ray
	Ceiling    string  `yaml:"ceiling"`     // Hex colour
	Floor      string  `yaml:"floor"`       // Hex colour
	DarkFactor int     `yaml:"dark_factor"` // 1..255
	Gun        bool    `yaml:"gun"`
}

// PlayerConfig defines player movement.
type PlayerConfig struct {
	TurnSpeed float64 `yaml:"turn_speed"` // Degrees per second
	WalkSpeed float64 `yaml:"walk_speed"` // Cells per second
	Clip      bool    `yaml:"clip"`
}

// InputConfig defines key handling.
type InputConfig struct {
	HoldMS int `yaml:"hold_ms"` // How long a press counts as held
}

// TexturesConfig defines where texture files are looked up.
type TexturesConfig struct {
	Dir string `yaml:"dir"`
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	r := c.Render
	if r.FOV < world.MinFOV || r.FOV > world.MaxFOV {
		return fmt.Errorf("%w: render.fov %v outside %v..%v", ErrInvalid, r.FOV, world.MinFOV, world.MaxFOV)
	}
	if r.MaxNodes <= 0 {
		return fmt.Errorf("%w: render.max_nodes must be positive, got %d", ErrInvalid, r.MaxNodes)
	}
	if r.DarkFactor < 1 || r.DarkFactor > 255 {
		return fmt.Errorf("%w: render.dark_factor %d outside 1..255", ErrInvalid, r.DarkFactor)
	}
	if _, err := core.ParseHexColor(r.Ceiling); err != nil {
		return fmt.Errorf("%w: render.ceiling: %w", ErrInvalid, err)
	}
	if _, err := core.ParseHexColor(r.Floor); err != nil {
		return fmt.Errorf("%w: render.floor: %w", ErrInvalid, err)
	}
	if c.Player.TurnSpeed <= 0 {
		return fmt.Errorf("%w: player.turn_speed must be positive, got %v", ErrInvalid, c.Player.TurnSpeed)
	}
	if c.Player.WalkSpeed <= 0 {
		return fmt.Errorf("%w: player.walk_speed must be positive, got %v", ErrInvalid, c.Player.WalkSpeed)
	}
	if c.Input.HoldMS <= 0 {
		return fmt.Errorf("%w: input.hold_ms must be positive, got %d", ErrInvalid, c.Input.HoldMS)
	}
	return nil
}

// Settings converts the config into world settings.
// Colours that fail to parse fall back to the defaults; call Validate first.
func (c Config) Settings() world.Settings {
	s := world.DefaultSettings()
	s.FOV = c.Render.FOV
	s.MaxNodes = c.Render.MaxNodes
	s.Gun = c.Render.Gun
	s.TurnSpeed = c.Player.TurnSpeed
	s.WalkSpeed = c.Player.WalkSpeed
	s.Clip = c.Player.Clip
	if col, err := core.ParseHexColor(c.Render.Ceiling); err == nil {
		s.Ceiling = col
	}
	if col, err := core.ParseHexColor(c.Render.Floor); err == nil {
		s.Floor = col
	}
	return s
}

// LoadOptions returns the map loading options for this config.
func (c Config) LoadOptions(textures *world.TextureLoader) world.LoadOptions {
	return world.LoadOptions{
		Textures:   textures,
		DarkFactor: uint8(core.Clamp(c.Render.DarkFactor, 1, 255)),
	}
}

// HoldDuration returns the key hold window.
func (c Config) HoldDuration() time.Duration {
	return time.Duration(c.Input.HoldMS) * time.Millisecond
}

package config

import (
	_ "embed"
)

//go:embed defaults/ulvestein.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded default configuration.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			FOV:        65,
			MaxNodes:   16,
			Ceiling:    "#383838",
			Floor:      "#707070",
			DarkFactor: 0xB0,
			Gun:        true,
		},
		Player: PlayerConfig{
			TurnSpeed: 105,
			WalkSpeed: 2.3,
			Clip:      true,
		},
		Input: InputConfig{
			HoldMS: 160,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultYAML
}

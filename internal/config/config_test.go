package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/ulvestein/internal/core"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("embedded defaults %+v differ from DefaultConfig %+v", cfg, DefaultConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadCustomPathMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "render:\n  fov: 90\nplayer:\n  clip: false\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Render.FOV != 90 || cfg.Player.Clip {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Render.MaxNodes != 16 || cfg.Player.WalkSpeed != 2.3 {
		t.Errorf("missing values should keep defaults: %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom config should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("render:\n  fov: 500\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	// Nothing on disk: embedded default
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	// Local configs directory
	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", "ulvestein.yaml"), []byte("render:\n  fov: 80\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _ = Load("")
	if cfg.Render.FOV != 80 {
		t.Errorf("local config not used, fov = %v", cfg.Render.FOV)
	}

	// User config wins over the local one
	userDir := filepath.Join(home, ".ulvestein")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "config.yaml"), []byte("render:\n  fov: 70\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _ = Load("")
	if cfg.Render.FOV != 70 {
		t.Errorf("user config not preferred, fov = %v", cfg.Render.FOV)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"fov too small", func(c *Config) { c.Render.FOV = 5 }},
		{"fov too large", func(c *Config) { c.Render.FOV = 170 }},
		{"no nodes", func(c *Config) { c.Render.MaxNodes = 0 }},
		{"dark factor", func(c *Config) { c.Render.DarkFactor = 0 }},
		{"bad ceiling", func(c *Config) { c.Render.Ceiling = "blue" }},
		{"bad floor", func(c *Config) { c.Render.Floor = "#12" }},
		{"turn speed", func(c *Config) { c.Player.TurnSpeed = -1 }},
		{"walk speed", func(c *Config) { c.Player.WalkSpeed = 0 }},
		{"hold", func(c *Config) { c.Input.HoldMS = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.Ceiling = "#010203"
	cfg.Player.WalkSpeed = 4

	s := cfg.Settings()
	if s.Ceiling != (core.RGB{R: 1, G: 2, B: 3}) {
		t.Errorf("ceiling = %v", s.Ceiling)
	}
	if s.WalkSpeed != 4 || s.FOV != 65 || !s.Clip {
		t.Errorf("settings = %+v", s)
	}

	if cfg.HoldDuration() != 160*time.Millisecond {
		t.Errorf("hold = %v", cfg.HoldDuration())
	}
	if cfg.LoadOptions(nil).DarkFactor != 0xB0 {
		t.Errorf("dark factor = %d", cfg.LoadOptions(nil).DarkFactor)
	}
}

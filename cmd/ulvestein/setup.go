package main

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/ulvestein/internal/config"
	"github.com/vovakirdan/ulvestein/internal/core"
	"github.com/vovakirdan/ulvestein/internal/registry"
	"github.com/vovakirdan/ulvestein/internal/storage"
	"github.com/vovakirdan/ulvestein/internal/world"
)

// expandHome replaces a leading ~ with the home directory.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// loadConfig loads the settings or exits.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// openStore opens the database. The game still works without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open sessions database: %v\n", err)
		return nil
	}
	return store
}

// openLog opens the log file used while the alternate screen is active.
// Falls back to discarding logs when the file cannot be created.
func openLog() (*log.Logger, io.Closer) {
	path := expandHome(flagLogPath)
	if path == "" {
		return log.New(io.Discard), io.NopCloser(nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create log directory: %v\n", err)
		return log.New(io.Discard), io.NopCloser(nil)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return log.New(io.Discard), io.NopCloser(nil)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "ulvestein",
	})
	return logger, f
}

// terminalConfig builds the runtime config from the terminal size.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	return cfg
}

// currentUser names the owner of local sessions and saves.
func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "local"
}

// screenshotDir returns where Ctrl+S puts screenshots.
func screenshotDir() string {
	return expandHome("~/.ulvestein/screenshots")
}

// worldBuilder creates worlds from built-in maps or map files with one
// shared texture cache.
type worldBuilder struct {
	cfg      config.Config
	textures *world.TextureLoader
}

func newWorldBuilder(cfg config.Config) *worldBuilder {
	return &worldBuilder{
		cfg:      cfg,
		textures: world.NewTextureLoader(expandHome(cfg.Textures.Dir)),
	}
}

// loadMap loads a map file when path is set, otherwise a built-in map.
// An empty id picks the first built-in map.
func (b *worldBuilder) loadMap(id, path string) (*world.Map, error) {
	opts := b.cfg.LoadOptions(b.textures)
	if path != "" {
		return world.LoadMapFile(path, opts)
	}
	if id == "" {
		id = registry.First()
	}
	return registry.Load(id, opts)
}

// build creates a world for a map.
func (b *worldBuilder) build(m *world.Map, logger *log.Logger, noclip bool) *world.World {
	settings := b.cfg.Settings()
	if noclip {
		settings.Clip = false
	}
	return world.New(m, settings, world.WithLogger(logger))
}

// forMap implements the SSH server world factory.
func (b *worldBuilder) forMap(id string, logger *log.Logger) (*world.World, error) {
	m, err := b.loadMap(id, "")
	if err != nil {
		return nil, err
	}
	return b.build(m, logger, false), nil
}

// resume moves the player to a saved position when there is one.
func resume(w *world.World, store *storage.Store, userName string, logger *log.Logger) {
	if store == nil {
		return
	}
	sv, err := store.LoadPosition(w.Map.ID, userName)
	if err != nil {
		logger.Info("no position resumed", "map", w.Map.ID, "reason", err)
		return
	}
	w.Place(core.V(sv.X, sv.Y), sv.Angle)
	w.Clip = sv.Clip
	w.SetFOV(sv.FOV)
	logger.Info("position resumed", "map", w.Map.ID, "x", sv.X, "y", sv.Y)
}

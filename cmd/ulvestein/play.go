package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ulvestein/internal/platform/tui"
	"github.com/vovakirdan/ulvestein/internal/registry"
)

var (
	flagMapFile string
	flagResume  bool
	flagNoclip  bool
)

var playCmd = &cobra.Command{
	Use:   "play [map]",
	Short: "Play a map",
	Long: `Play a built-in map or a map file.

Without arguments the first built-in map is played.

Controls:
  W/S or Up/Down  - Walk forward/backward
  Left/Right      - Turn
  A/D             - Strafe
  N               - Toggle wall collision
  +/-             - Change field of view
  P               - Pause
  Ctrl+S          - Save a screenshot
  Q/Esc           - Quit

Examples:
  ulvestein play
  ulvestein play mirrors --fps 30
  ulvestein play --map-file ./level.yaml
  ulvestein play e1m1 --resume`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMapFile, "map-file", "", "Play a map file instead of a built-in map")
	playCmd.Flags().BoolVar(&flagResume, "resume", false, "Start from the last saved position")
	playCmd.Flags().BoolVar(&flagNoclip, "noclip", false, "Start with wall collision off")
}

func runPlay(_ *cobra.Command, args []string) {
	mapID := ""
	if len(args) == 1 {
		mapID = args[0]
		if flagMapFile == "" && !registry.Exists(mapID) {
			fmt.Fprintf(os.Stderr, "Error: unknown map %q\n", mapID)
			fmt.Fprintln(os.Stderr, "Run 'ulvestein maps' to see available maps.")
			os.Exit(1)
		}
	}

	cfg := loadConfig()
	logger, logFile := openLog()
	defer logFile.Close()

	builder := newWorldBuilder(cfg)
	m, err := builder.loadMap(mapID, flagMapFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading map: %v\n", err)
		os.Exit(1)
	}
	w := builder.build(m, logger, flagNoclip)

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	user := currentUser()
	if flagResume {
		resume(w, store, user, logger)
	}

	opts := tui.GameOptions{
		Store:   store,
		User:    user,
		Hold:    cfg.HoldDuration(),
		ShotDir: screenshotDir(),
		Logger:  logger,
	}
	if err := tui.Run(w, terminalConfig(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ulvestein/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a map picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a map.
After leaving a map, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Play map
  Tab          - Recent sessions
  Q            - Quit

Examples:
  ulvestein menu
  ulvestein menu --fps 30
  ulvestein menu --db ./ulvestein.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger, logFile := openLog()
	defer logFile.Close()

	store := openStore()
	builder := newWorldBuilder(cfg)
	user := currentUser()
	rc := terminalConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, rc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Keep size changes from the menu
		rc = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsSessions {
			goBack, sErr := tui.RunSessions(store, rc.ScreenW, rc.ScreenH)
			if sErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sErr)
			}
			if goBack {
				continue
			}
			break
		}

		if menuResult.MapID == "" {
			break
		}

		w, err := builder.forMap(menuResult.MapID, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading map: %v\n", err)
			continue
		}

		opts := tui.GameOptions{
			Store:   store,
			User:    user,
			Hold:    cfg.HoldDuration(),
			ShotDir: screenshotDir(),
			Logger:  logger,
		}
		if err := tui.Run(w, rc, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}

	if store != nil {
		store.Close()
	}
}

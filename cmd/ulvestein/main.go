// ulvestein is a first-person raycaster that runs in the terminal.
//
// Usage:
//
//	ulvestein maps               - List built-in maps
//	ulvestein play [map]         - Play a map
//	ulvestein menu               - Start menu to pick maps interactively
//	ulvestein sessions <map>     - Show recent sessions on a map
//	ulvestein snapshot [map]     - Render one frame to a PNG file
//	ulvestein serve              - Start SSH server for remote play
//	ulvestein config             - Print the effective settings
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--db <path>       - Set database path (default: ~/.ulvestein/ulvestein.db)
//	--config <path>   - Use a specific config file
//	--log <path>      - Log file used while the game owns the terminal
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	// Import maps to register them
	_ "github.com/vovakirdan/ulvestein/internal/maps"
)

var (
	// Global flags
	flagFPS        int
	flagDBPath     string
	flagConfigPath string
	flagLogPath    string
)

// Environment variables overriding flag defaults.
const (
	envDBPath     = "ULVESTEIN_DB"
	envConfigPath = "ULVESTEIN_CONFIG"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ulvestein",
	Short: "Ulvestein - a raycaster in your terminal",
	Long: `Ulvestein renders a textured first-person view of a grid map with
half-block characters, Wolfenstein 3D style.

Available commands:
  maps      - Show all built-in maps
  play      - Play a map directly
  menu      - Interactive map picker menu
  sessions  - View recent sessions
  snapshot  - Save a rendered frame as PNG
  serve     - Start SSH server for remote play
  config    - Print the effective settings

Examples:
  ulvestein maps
  ulvestein play e1m1
  ulvestein play --map-file ./level.yaml
  ulvestein menu
  ulvestein serve --ssh :2222 --metrics :9090`,
	PersistentPreRunE: applyEnv,
	SilenceUsage:      true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.ulvestein/ulvestein.db", "Path to sessions database (env "+envDBPath+")")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config YAML (env "+envConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "~/.ulvestein/ulvestein.log", "Log file path")

	// Add subcommands
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// applyEnv loads .env and applies environment overrides to flags that
// were not set on the command line.
func applyEnv(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot load .env: %w", err)
	}

	flags := cmd.Flags()
	if v := os.Getenv(envDBPath); v != "" && !flags.Changed("db") {
		flagDBPath = v
	}
	if v := os.Getenv(envConfigPath); v != "" && !flags.Changed("config") {
		flagConfigPath = v
	}
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}
	return nil
}

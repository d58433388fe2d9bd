package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ulvestein/internal/registry"
	"github.com/vovakirdan/ulvestein/internal/storage"
)

var flagClearSessions bool

var sessionsCmd = &cobra.Command{
	Use:   "sessions <map>",
	Short: "Show recent sessions on a map",
	Long: `Display the 10 most recent sessions played on a map, with totals.

Examples:
  ulvestein sessions e1m1
  ulvestein sessions mirrors --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runSessions,
}

func init() {
	sessionsCmd.Flags().BoolVar(&flagClearSessions, "clear", false, "Delete the recorded sessions and your saved position on the map")
}

func runSessions(_ *cobra.Command, args []string) {
	mapID := args[0]

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening sessions database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	known, err := knownMap(store, mapID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !known {
		fmt.Fprintf(os.Stderr, "Error: unknown map %q and no sessions recorded on it\n", mapID)
		fmt.Fprintln(os.Stderr, "Run 'ulvestein maps' to see available maps.")
		os.Exit(1)
	}

	if flagClearSessions {
		if err := store.ClearSessions(mapID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing sessions: %v\n", err)
			os.Exit(1)
		}
		if err := store.DeletePosition(mapID, currentUser()); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting saved position: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared sessions and your saved position on %s.\n", mapID)
		return
	}

	sessions, err := store.RecentSessions(mapID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Recent Sessions - %s\n", mapID)
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'ulvestein play %s' to record one.\n", mapID)
		return
	}

	fmt.Printf("  %-16s  %-12s  %8s  %5s  %8s\n", "Date", "User", "Time", "FPS", "Distance")
	fmt.Printf("  %-16s  %-12s  %8s  %5s  %8s\n", "----", "----", "----", "---", "--------")

	for _, s := range sessions {
		user := s.User
		if user == "" {
			user = "-"
		}
		fmt.Printf("  %-16s  %-12s  %8s  %5.0f  %8.1f\n",
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			user,
			s.Duration.Round(time.Second),
			s.AvgFPS,
			s.Distance,
		)
	}

	stats, err := store.GetMapStats(mapID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving totals: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("  %d sessions, %s played, %.1f cells walked, best %.0f fps\n",
		stats.Sessions, stats.TotalTime.Round(time.Second), stats.TotalDistance, stats.BestFPS)
}

// knownMap reports whether mapID is a built-in map or has recorded
// sessions, as maps played with --map-file do.
func knownMap(store *storage.Store, mapID string) (bool, error) {
	if registry.Exists(mapID) {
		return true, nil
	}
	stats, err := store.GetMapStats(mapID)
	if err != nil {
		return false, err
	}
	return stats.Sessions > 0, nil
}

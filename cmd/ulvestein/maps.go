package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ulvestein/internal/registry"
	"github.com/vovakirdan/ulvestein/internal/world"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List all built-in maps",
	Long:  `Shows the maps compiled into ulvestein with their grid size.`,
	Run:   runMaps,
}

func runMaps(_ *cobra.Command, _ []string) {
	maps := registry.List()

	if len(maps) == 0 {
		fmt.Println("No maps available.")
		return
	}

	fmt.Println("Available maps:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxTitleLen := 2, 5 // "ID", "Title" headers
	for _, m := range maps {
		maxIDLen = max(maxIDLen, len(m.ID))
		maxTitleLen = max(maxTitleLen, len(m.Title))
	}

	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Size")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "----")

	// Textures are not needed to report the grid size
	for _, info := range maps {
		size := "?"
		if m, err := registry.Load(info.ID, world.LoadOptions{}); err == nil {
			size = fmt.Sprintf("%dx%d", m.Width, m.Height)
		}
		fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, info.ID, maxTitleLen, info.Title, size)
	}

	fmt.Println()
	fmt.Printf("Built-in textures: %s\n", strings.Join(world.BuiltinNames(), ", "))
	fmt.Println()
	fmt.Println("Run 'ulvestein play <id>' to play a map.")
}

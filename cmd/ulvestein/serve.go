package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ulvestein/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a map picker menu.
Sessions and saved positions are stored per SSH user in one database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.ulvestein/host_key

Examples:
  ulvestein serve                           # Listen on :23234 with auto-generated key
  ulvestein serve --ssh :2222               # Listen on port 2222
  ulvestein serve --host-key ./my_host_key  # Use specific host key
  ulvestein serve --metrics :9090           # Expose prometheus metrics

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Serve prometheus metrics on this address (disabled if empty)")
}

func runServe(_ *cobra.Command, _ []string) {
	appCfg := loadConfig()
	builder := newWorldBuilder(appCfg)

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.MetricsAddress = flagMetricsAddr
	cfg.TickRate = flagFPS
	cfg.Hold = appCfg.HoldDuration()
	cfg.NewWorld = builder.forMap

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	port := "23234"
	if _, p, splitErr := net.SplitHostPort(server.Addr()); splitErr == nil {
		port = p
	}

	fmt.Printf("Starting ulvestein SSH server on %s\n", server.Addr())
	fmt.Printf("Connect with: ssh localhost -p %s\n", port)
	if cfg.MetricsAddress != "" {
		fmt.Printf("Metrics at http://%s/metrics\n", cfg.MetricsAddress)
	}
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

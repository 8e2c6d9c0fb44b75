package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"launchpad/internal/app"
)

// serveNoTUI controls whether to run in CLI mode (true) or TUI mode (false).
var serveNoTUI bool

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveConfigPath loads config.yaml from this directory instead of the
// user and project layers.
var serveConfigPath string

// serveCmd starts the services and follows the startup sequence.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the vector store and backend with an interactive TUI or CLI mode.",
	Long: `Starts the Qdrant vector store, unpacks the bundled backend dependencies
and launches the Node.js backend, then waits for it to accept connections.
It can run in two modes:

1. Interactive TUI Mode (default):
   - Shows the startup phases with a spinner and the startup log.
   - Keeps running after startup; press q to stop all services and exit.

2. Non-TUI / CLI Mode (using --no-tui flag):
   - Prints each startup log line to the console as it happens.
   - Services keep running until the process is terminated (e.g., Ctrl+C).

While serve runs, 'launchpad status' reads the current startup status from
the local status endpoint.

Configuration:
  launchpad loads configuration from ~/.config/launchpad/config.yaml and
  .launchpad/config.yaml in the current directory. Use --config to load a
  single directory instead.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveNoTUI, serveDebug, serveConfigPath, rootCmd.Version)

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveNoTUI, "no-tui", false, "Disable TUI and print the startup log to the console")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable general debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Directory containing config.yaml (skips the user and project layers)")
}

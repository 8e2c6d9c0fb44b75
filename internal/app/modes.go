package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"launchpad/internal/startup"
	"launchpad/internal/tui"
	"launchpad/pkg/logging"
)

// runCLIMode executes the non-interactive command line mode
func runCLIMode(ctx context.Context, config *Config, services *Services, done <-chan error, out io.Writer) error {
	logging.Info("CLI", "Running in no-TUI mode.")
	return followStatus(ctx, services.Publisher, out, tui.DefaultPollInterval, done)
}

// followStatus prints new status lines until ctx is done, which Run does on
// an exit signal. The outcome of the sequence is announced once; services
// keep running after it.
func followStatus(ctx context.Context, publisher *startup.Publisher, out io.Writer, interval time.Duration, done <-chan error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	printed := 0
	flush := func() {
		printed = printNewLogs(out, publisher.Snapshot(), printed)
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			fmt.Fprintln(out, "--- Shutting down services ---")
			return nil
		case err, ok := <-done:
			if !ok {
				done = nil
				continue
			}
			flush()
			if err != nil {
				logging.Warn("CLI", "Startup finished without a ready backend: %v", err)
			}
			fmt.Fprintln(out, "Services running. Press Ctrl+C to stop all services and exit.")
		case <-ticker.C:
			flush()
		}
	}
}

// printNewLogs writes the lines of s after the first printed ones and
// returns the new count.
func printNewLogs(out io.Writer, s startup.Status, printed int) int {
	if printed > len(s.Logs) {
		printed = 0
	}
	for _, line := range s.Logs[printed:] {
		fmt.Fprintln(out, line)
	}
	return len(s.Logs)
}

// runTUIMode executes the interactive terminal UI mode
func runTUIMode(ctx context.Context, config *Config, services *Services) error {
	logging.Info("CLI", "Starting TUI mode...")

	// Switch logging to channel-based system for TUI integration
	logChan := logging.InitForTUI(config.LogLevel())
	defer func() {
		logging.CloseTUIChannel()
		logging.InitForCLI(config.LogLevel(), os.Stderr)
	}()

	err := tui.Run(ctx, services.Publisher, tui.Options{
		Version:    config.Version,
		LogChannel: logChan,
	})
	if err != nil {
		logging.Error("TUI-Lifecycle", err, "Error running TUI program")
		return err
	}
	logging.Info("TUI-Lifecycle", "TUI exited.")
	return nil
}

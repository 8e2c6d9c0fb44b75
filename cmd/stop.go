package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"launchpad/internal/app"
	"launchpad/pkg/logging"
)

var stopConfigPath string

func newStopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the vector store container left behind by a previous run",
		Long: `Stops every container publishing the configured vector store port, or the
configured container name when none is found. 'launchpad serve' does this on
exit; use stop after a run that was killed before it could clean up.`,
		Args: cobra.NoArgs,
		RunE: runStop,
	}
	cmd.Flags().StringVar(&stopConfigPath, "config", "", "Directory containing config.yaml")
	return cmd
}

func runStop(cmd *cobra.Command, args []string) error {
	logging.InitForCLI(logging.LevelInfo, cmd.ErrOrStderr())

	lc, err := app.LoadConfiguration(stopConfigPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, name := range app.StopVectorStore(ctx, lc) {
		fmt.Fprintf(cmd.OutOrStdout(), "Stopped %s\n", name)
	}
	return nil
}

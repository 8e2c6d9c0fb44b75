package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"launchpad/internal/app"
	"launchpad/internal/startup"
	"launchpad/internal/statusapi"
)

var (
	statusEndpoint     string
	statusOutputFormat string
	statusTimeout      time.Duration
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the startup status of a running launchpad",
		Long: `Connects to the status endpoint of a running 'launchpad serve' and prints
the current phase, message and startup log.

The endpoint defaults to the statusServer host and port from the
configuration.`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
	cmd.Flags().StringVar(&statusEndpoint, "endpoint", "", "Status endpoint base URL (default from configuration)")
	cmd.Flags().StringVarP(&statusOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	cmd.Flags().DurationVar(&statusTimeout, "timeout", 5*time.Second, "How long to wait for the endpoint")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	endpoint := statusEndpoint
	if endpoint == "" {
		lc, err := app.LoadConfiguration("")
		if err != nil {
			return err
		}
		endpoint = statusapi.DefaultEndpoint(lc.StatusServer.Host, lc.StatusServer.Port)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	status, err := statusapi.NewClient(endpoint, rootCmd.Version).Status(ctx)
	if err != nil {
		return fmt.Errorf("is 'launchpad serve' running? %w", err)
	}
	return writeStatus(cmd.OutOrStdout(), status, statusOutputFormat)
}

// writeStatus renders status in the requested format.
func writeStatus(out io.Writer, status startup.Status, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	case "yaml":
		data, err := yaml.Marshal(statusDocument(status))
		if err != nil {
			return fmt.Errorf("failed to convert to YAML: %w", err)
		}
		_, err = out.Write(data)
		return err
	case "table":
		writeStatusTable(out, status)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// statusDocument mirrors the JSON field names for YAML output.
func statusDocument(s startup.Status) map[string]interface{} {
	return map[string]interface{}{
		"run_id":     s.RunID,
		"phase":      s.Phase.String(),
		"message":    s.Message,
		"elapsed_ms": s.ElapsedMS,
		"version":    s.Version,
		"logs":       s.Logs,
	}
}

func writeStatusTable(out io.Writer, s startup.Status) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{text.FgHiCyan.Sprint("FIELD"), text.FgHiCyan.Sprint("VALUE")})
	t.AppendRow(table.Row{"Phase", phaseText(s.Phase)})
	t.AppendRow(table.Row{"Message", s.Message})
	t.AppendRow(table.Row{"Elapsed", s.Elapsed().Round(100 * time.Millisecond).String()})
	t.AppendRow(table.Row{"Run", s.RunID})
	t.Render()

	if len(s.Logs) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s\n", text.FgHiBlue.Sprint("Startup log:"))
	for _, line := range s.Logs {
		fmt.Fprintln(out, line)
	}
}

func phaseText(p startup.Phase) string {
	switch p {
	case startup.PhaseReady:
		return text.FgGreen.Sprint(p.String())
	case startup.PhaseTimeout:
		return text.FgRed.Sprint(p.String())
	default:
		return text.FgYellow.Sprint(p.String())
	}
}

package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the loading screen until the user quits or ctx is done. It
// returns when the program has exited; tearing services down is the
// caller's job.
func Run(ctx context.Context, source StatusSource, opts Options) error {
	p := tea.NewProgram(New(source, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running TUI program: %w", err)
	}
	return nil
}

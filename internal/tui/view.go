package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"launchpad/internal/startup"
)

type step struct {
	phase startup.Phase
	label string
}

var steps = []step{
	{startup.PhaseVectorStore, "Start vector database"},
	{startup.PhaseVectorStoreWait, "Wait for vector database"},
	{startup.PhaseUnpacking, "Prepare dependencies"},
	{startup.PhaseBackendStarting, "Launch backend"},
	{startup.PhaseBackendWait, "Wait for backend"},
}

// fixedRows is every row outside the log viewport: header, steps, outcome,
// message block, log panel frame and title, footer block.
var fixedRows = 1 + len(steps) + 1 + 2 + 3 + 2

func (m *Model) resizeViewport() {
	w := m.width - logPanelStyle.GetHorizontalFrameSize()
	if w < 10 {
		w = 10
	}
	h := m.height - fixedRows
	if h < 3 {
		h = 3
	}
	m.viewport.Width = w
	m.viewport.Height = h
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return "Stopping services...\n"
	}

	title := "launchpad"
	if m.opts.Version != "" {
		title += " " + m.opts.Version
	}
	sections := []string{
		headerStyle.Render(title),
		m.renderSteps(),
		m.renderMessage(),
		m.renderLog(),
		m.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderSteps() string {
	current := m.status.Phase
	lines := make([]string, 0, len(steps)+1)
	for _, s := range steps {
		switch {
		case current > s.phase:
			lines = append(lines, stepDoneStyle.Render(IconCheck+" "+s.label))
		case current == s.phase:
			lines = append(lines, stepActiveStyle.Render(m.spinner.View()+" "+s.label))
		default:
			lines = append(lines, stepPendingStyle.Render(IconPending+" "+s.label))
		}
	}
	switch current {
	case startup.PhaseReady:
		lines = append(lines, readyStyle.Render(IconCheck+" Ready"))
	case startup.PhaseTimeout:
		lines = append(lines, timeoutStyle.Render(IconWarning+" Backend not ready"))
	default:
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderMessage() string {
	msg := m.status.Message
	if !m.polled {
		msg = "Waiting for status..."
	}
	elapsed := m.status.Elapsed().Truncate(100 * time.Millisecond)
	return messageStyle.Render(msg) + "\n" + elapsedStyle.Render(fmt.Sprintf("elapsed %s", elapsed))
}

func (m Model) renderLog() string {
	title := "Startup log"
	if m.showAppLog {
		title = "Application log"
	}
	content := lipgloss.JoinVertical(lipgloss.Left, logTitleStyle.Render(title), m.viewport.View())
	return logPanelStyle.Width(m.viewport.Width).Render(content)
}

func (m Model) renderFooter() string {
	line := m.help.View(m.keys)
	if m.notice != "" {
		line += "  " + noticeStyle.Render(m.notice)
	}
	return footerStyle.Render(line)
}

// prepareLogContent truncates long lines so the viewport never wraps, then
// styles them by marker.
func prepareLogContent(lines []string, maxWidth int) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = styleLogLine(truncateLine(line, maxWidth))
	}
	return strings.Join(out, "\n")
}

func truncateLine(line string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(line) <= maxWidth {
		return line
	}
	return runewidth.Truncate(line, maxWidth-1, "") + "…"
}

func styleLogLine(l string) string {
	switch {
	case strings.Contains(l, "⚠"):
		return logWarnStyle.Render(l)
	case strings.Contains(l, "✓"):
		return logOkStyle.Render(l)
	case strings.Contains(l, " › "):
		return logToolStyle.Render(l)
	default:
		return logPlainStyle.Render(l)
	}
}

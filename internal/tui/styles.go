package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	// DefaultPollInterval is how often the snapshot is read.
	DefaultPollInterval = 400 * time.Millisecond
	// maxAppLogLines bounds the debug log pane.
	maxAppLogLines = 500
	// noticeDuration is how long footer notices stay visible.
	noticeDuration = 3 * time.Second
)

const (
	IconCheck   = "✔"
	IconWarning = "⚠"
	IconPending = "·"
	IconCross   = "✘"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
			Background(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#303030"}).
			Padding(0, 2)

	stepDoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#006400", Dark: "#8FBC8F"})
	stepActiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#00008B", Dark: "#87CEFA"})
	stepPendingStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#6A6A6A"})

	messageStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	elapsedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#A0A0A0"})

	readyStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#006400", Dark: "#32CD32"})
	timeoutStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD700"})

	logPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#A0A0A0"}).
			Padding(0, 1)
	logTitleStyle = lipgloss.NewStyle().Bold(true)

	logOkStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#006400", Dark: "#8FBC8F"})
	logWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD700"})
	logToolStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#8A8A8A"})
	logPlainStyle = lipgloss.NewStyle()

	noticeStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.AdaptiveColor{Light: "#00008B", Dark: "#87CEFA"})
	footerStyle = lipgloss.NewStyle().MarginTop(1)
)

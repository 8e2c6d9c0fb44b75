package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"launchpad/internal/startup"
	"launchpad/pkg/logging"
)

// StatusSource produces startup snapshots; *startup.Publisher satisfies it.
type StatusSource interface {
	Snapshot() startup.Status
}

// Options configures the loading screen.
type Options struct {
	Version      string
	PollInterval time.Duration
	// LogChannel carries application log entries while logging is in TUI
	// mode. May be nil.
	LogChannel <-chan logging.LogEntry
}

// Model is the Bubble Tea model of the loading screen.
type Model struct {
	source StatusSource
	opts   Options

	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model

	status      startup.Status
	polled      bool
	lastVersion uint64

	appLogs      []string
	showAppLog   bool
	appLogsDirty bool

	width  int
	height int

	notice      string
	noticeUntil time.Time

	quitting bool

	// writeClipboard is replaced in tests.
	writeClipboard func(string) error
}

// New creates the model. Nothing is read from source until the first tick.
func New(source StatusSource, opts Options) Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		source:         source,
		opts:           opts,
		keys:           DefaultKeyMap(),
		help:           help.New(),
		spinner:        s,
		viewport:       viewport.New(80, 10),
		writeClipboard: clipboard.WriteAll,
	}
}

// Status returns the last snapshot the model rendered.
func (m Model) Status() startup.Status {
	return m.status
}

// Quitting reports whether the user asked to quit.
func (m Model) Quitting() bool {
	return m.quitting
}

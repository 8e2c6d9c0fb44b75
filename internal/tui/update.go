package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"launchpad/pkg/logging"
)

type tickMsg time.Time

type logEntryMsg logging.LogEntry

type logChannelClosedMsg struct{}

type clearNoticeMsg struct{}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.PollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// listenForLogs forwards one entry from the logging channel per call.
func (m Model) listenForLogs() tea.Cmd {
	ch := m.opts.LogChannel
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return logChannelClosedMsg{}
		}
		return logEntryMsg(entry)
	}
}

// Init polls immediately, then on every tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return tickMsg(time.Now()) },
		m.spinner.Tick,
		m.listenForLogs(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeViewport()
		m.refreshViewport(true)
		return m, nil

	case tickMsg:
		m.poll()
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case logEntryMsg:
		m.appendAppLog(logging.LogEntry(msg))
		if m.showAppLog {
			m.refreshViewport(false)
		}
		return m, m.listenForLogs()

	case logChannelClosedMsg:
		return m, nil

	case clearNoticeMsg:
		if !m.noticeUntil.IsZero() && !time.Now().Before(m.noticeUntil) {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.CopyLogs):
		text := strings.Join(m.currentLines(), "\n")
		if err := m.writeClipboard(text); err != nil {
			logging.Warn("TUI", "Copy to clipboard failed: %v", err)
			return m, m.setNotice(fmt.Sprintf("Copy failed: %v", err))
		}
		return m, m.setNotice("Log copied to clipboard")

	case key.Matches(msg, m.keys.ToggleDebug):
		m.showAppLog = !m.showAppLog
		m.refreshViewport(true)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) setNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeUntil = time.Now().Add(noticeDuration)
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg { return clearNoticeMsg{} })
}

// poll reads the snapshot and rebuilds the viewport only when the version
// moved.
func (m *Model) poll() {
	s := m.source.Snapshot()
	changed := !m.polled || s.Version != m.lastVersion
	m.status = s
	m.polled = true
	m.lastVersion = s.Version
	if changed && !m.showAppLog {
		m.refreshViewport(false)
	}
}

func (m *Model) appendAppLog(e logging.LogEntry) {
	line := fmt.Sprintf("[%s] %s %s: %s", e.Timestamp.Format("15:04:05"), e.Level, e.Subsystem, e.Message)
	if e.Err != nil {
		line += fmt.Sprintf(" (%v)", e.Err)
	}
	m.appLogs = append(m.appLogs, line)
	if len(m.appLogs) > maxAppLogLines {
		m.appLogs = m.appLogs[len(m.appLogs)-maxAppLogLines:]
	}
}

func (m Model) currentLines() []string {
	if m.showAppLog {
		return m.appLogs
	}
	return m.status.Logs
}

// refreshViewport re-renders the log pane. It follows the tail unless the
// user scrolled up, or force is set.
func (m *Model) refreshViewport(force bool) {
	follow := force || m.viewport.AtBottom()
	m.viewport.SetContent(prepareLogContent(m.currentLines(), m.viewport.Width))
	if follow {
		m.viewport.GotoBottom()
	}
}

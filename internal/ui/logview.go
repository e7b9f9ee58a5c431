package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/huntsched/internal/logtail"
)

// LogTailLines is how many log lines the log view loads.
const LogTailLines = 400

type logLoadedMsg struct {
	entries []logtail.Entry
	err     error
}

func loadLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		if err != nil {
			return logLoadedMsg{err: err}
		}
		entries := make([]logtail.Entry, 0, len(lines))
		for _, line := range lines {
			entries = append(entries, logtail.Parse(line))
		}
		return logLoadedMsg{entries: entries}
	}
}

// logView shows the tail of the application log in a scrollable viewport.
type logView struct {
	path     string
	theme    Theme
	viewport viewport.Model
	loaded   bool
	count    int
	err      error
}

func newLogView(path string, theme Theme, width, height int) *logView {
	v := &logView{path: path, theme: theme, viewport: viewport.New(0, 0)}
	v.resize(width, height)
	return v
}

func (v *logView) resize(width, height int) {
	v.viewport.Width = max(width-4, 20)
	v.viewport.Height = max(height-4, 3)
}

func (v *logView) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize(msg.Width, msg.Height)
		return v, nil, false
	case logLoadedMsg:
		v.loaded = true
		v.err = msg.err
		v.count = len(msg.entries)
		v.viewport.SetContent(v.render(msg.entries))
		v.viewport.GotoBottom()
		return v, nil, false
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Cancel), key.Matches(msg, keys.Logs):
			return v, nil, true
		case key.Matches(msg, keys.Reload):
			return v, loadLogCmd(v.path), false
		}
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd, false
}

func (v *logView) render(entries []logtail.Entry) string {
	styles := v.theme.Styles()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		style := styles.Text
		switch strings.ToLower(e.Level) {
		case "warn":
			style = styles.WarningText
		case "error", "fatal", "panic":
			style = styles.DangerText
		case "debug", "trace":
			style = styles.FaintText
		}
		lines = append(lines, style.Render(truncate(e.String(), v.viewport.Width)))
	}
	return strings.Join(lines, "\n")
}

func (v *logView) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	title := styles.Text.Bold(true).Render("Log") + "  " + styles.MutedText.Render(truncate(v.path, width/2))
	var body string
	switch {
	case !v.loaded:
		body = styles.MutedText.Render("Loading...")
	case v.err != nil:
		body = styles.DangerText.Render(v.err.Error())
	case v.count == 0:
		body = styles.MutedText.Render("Nothing logged yet")
	default:
		body = v.viewport.View()
	}
	footer := styles.MutedText.Render("j/k scroll  r reload  esc close")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Border)).
		Width(max(width-2, 20))
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, title, body, footer))
}

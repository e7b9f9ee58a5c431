package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastError
)

// toast is a transient one-line notification.
type toast struct {
	level toastLevel
	text  string
	seq   int
}

// toastExpiredMsg clears the toast with the matching sequence number.
type toastExpiredMsg struct {
	seq int
}

// pushToast replaces the current toast and schedules its expiry. A newer
// toast is not cleared by an older toast's timer.
func (m *Model) pushToast(level toastLevel, text string) tea.Cmd {
	m.toastSeq++
	seq := m.toastSeq
	m.toast = &toast{level: level, text: text, seq: seq}
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m *Model) expireToast(seq int) {
	if m.toast != nil && m.toast.seq == seq {
		m.toast = nil
	}
}

// renderToast renders the bottom line: the toast if one is showing, else the
// short key help.
func (m Model) renderToast() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.toast == nil {
		parts := make([]string, 0, 4)
		for _, item := range helpItems(m.keys.ShortHelp()) {
			parts = append(parts, bg.Render(item.key, styles.AccentText)+bg.Sep(":")+bg.Render(item.desc, styles.MutedText))
		}
		return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
	}

	var style lipgloss.Style
	icon := "•"
	switch m.toast.level {
	case toastSuccess:
		style, icon = styles.SuccessText, "✓"
	case toastError:
		style, icon = styles.DangerText, "✗"
	default:
		style = styles.InfoText
	}
	text := truncate(m.toast.text, m.width-4)
	return styles.Footer.Width(m.width).Render(bg.Render(icon+" "+text, style))
}

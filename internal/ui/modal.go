package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/huntsched/internal/schedule"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// deleteConfirmedMsg asks the model to delete rule.
type deleteConfirmedMsg struct {
	rule schedule.Rule
}

// confirmDelete asks before deleting a schedule.
type confirmDelete struct {
	rule   schedule.Rule
	target string
}

func (c confirmDelete) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Confirm), km.String() == "y":
		rule := c.rule
		return c, func() tea.Msg { return deleteConfirmedMsg{rule: rule} }, true
	case key.Matches(km, keys.Cancel), km.String() == "n":
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmDelete) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete schedule?"))
	b.WriteString("\n\n")
	rows := [][2]string{
		{"Time", c.rule.Time.String()},
		{"Days", schedule.FormatDays(c.rule.Days)},
		{"Action", c.rule.Action.Label()},
		{"Target", c.target},
	}
	for _, r := range rows {
		b.WriteString(styles.MutedText.Render(padRight(r[0], 10)))
		b.WriteString(styles.Text.Render(r[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render("y/enter") + styles.MutedText.Render(" delete   ") +
		styles.AccentText.Render("n/esc") + styles.MutedText.Render(" keep"))

	return placeModal(theme, theme.Danger, width, height, b.String())
}

func placeModal(theme Theme, border string, width, height int, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(FormWidth)
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

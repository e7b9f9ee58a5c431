package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/huntsched/internal/schedule"
)

// renderHeader renders the status bar: server, timezone clock and counts.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	tz := m.dir.Timezone()
	now := m.now().In(schedule.LoadLocation(tz))

	server := m.serverURL
	if compact {
		server = truncate(server, 28)
	}

	parts := []string{
		bg.Render("huntsched", styles.Logo),
		bg.Render(server, styles.MutedText),
		bg.Render(tz, styles.InfoText) + bg.Space() + bg.Render(now.Format("Mon 15:04"), styles.Text),
		bg.Render(fmt.Sprintf("%d schedules", len(m.rules)), styles.AccentText),
	}
	if enabled := countEnabled(m.rules); enabled != len(m.rules) {
		parts = append(parts, bg.Render(fmt.Sprintf("%d disabled", len(m.rules)-enabled), styles.WarningText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Padding(0, 1).
		Width(m.width).
		Render(strings.Join(parts, sep))
}

func countEnabled(rules []schedule.Rule) int {
	n := 0
	for _, r := range rules {
		if r.Enabled {
			n++
		}
	}
	return n
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"a", "Add"},
		{"d", "Delete"},
		{"r", "Reload"},
		{"I", "Instances"},
		{"L", "Log"},
		{"j/k", "Navigate"},
		{"?", "More"},
	}
	if m.width < LayoutCompactWidth {
		commands = commands[:4]
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}

package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/huntsched/internal/schedule"
)

// Column widths for the schedule table; Target takes the rest.
const (
	colTime    = 7
	colDays    = 20
	colAction  = 16
	colNextRun = 24
	colEnabled = 8
	colGap     = 2
)

// ruleRow is the display form of one rule.
type ruleRow struct {
	time    string
	days    string
	action  string
	target  string
	nextRun string
	enabled string
}

func newRuleRow(rule schedule.Rule, dir schedule.InstanceLister, loc *time.Location, now time.Time) ruleRow {
	next, ok := schedule.NextRun(rule, loc, now)
	return ruleRow{
		time:    rule.Time.String(),
		days:    schedule.FormatDays(rule.Days),
		action:  rule.Action.Label(),
		target:  schedule.Describe(rule.Address, dir),
		nextRun: formatNextRun(next, ok, now, loc),
		enabled: ternary(rule.Enabled, "yes", "no"),
	}
}

func formatNextRun(next time.Time, ok bool, now time.Time, loc *time.Location) string {
	if !ok {
		return "-"
	}
	return next.In(loc).Format("Mon 15:04") + " (in " + humanizeDuration(next.Sub(now)) + ")"
}

// reloadRules re-reads the flattened rule list, keeping the selection on the
// same rule id when it still exists.
func (m *Model) reloadRules() {
	var selectedID string
	if rule, ok := m.selectedRule(); ok {
		selectedID = rule.ID
	}
	m.rules = m.store.Flatten()
	m.selectRule(selectedID)
}

func (m *Model) selectRule(id string) {
	if len(m.rules) == 0 {
		m.selectedRow = 0
		return
	}
	if id != "" {
		for i, rule := range m.rules {
			if rule.ID == id {
				m.selectedRow = i
				return
			}
		}
	}
	if m.selectedRow >= len(m.rules) {
		m.selectedRow = len(m.rules) - 1
	}
}

func (m Model) selectedRule() (schedule.Rule, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.rules) {
		return schedule.Rule{}, false
	}
	return m.rules[m.selectedRow], true
}

func (m *Model) moveSelection(delta int) {
	if len(m.rules) == 0 {
		return
	}
	m.selectedRow = max(0, min(len(m.rules)-1, m.selectedRow+delta))
}

// renderList renders the schedule table into height lines.
func (m Model) renderList(height int) string {
	styles := m.theme.Styles()
	if height < 2 {
		height = 2
	}

	if len(m.rules) == 0 {
		msg := styles.MutedText.Render("No schedules yet. Press a to add one.")
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msg)
	}

	showNext := m.width >= LayoutNextRunWidth
	targetWidth := m.width - colTime - colDays - colAction - colEnabled - 5*colGap - 2
	if showNext {
		targetWidth -= colNextRun + colGap
	}
	targetWidth = max(targetWidth, 12)

	columns := func(r ruleRow) []string {
		cols := []string{
			cell(r.time, colTime),
			cell(r.days, colDays),
			cell(r.action, colAction),
			cell(r.target, targetWidth),
		}
		if showNext {
			cols = append(cols, cell(r.nextRun, colNextRun))
		}
		return append(cols, cell(r.enabled, colEnabled))
	}
	gap := strings.Repeat(" ", colGap)

	lines := make([]string, 0, height)
	header := columns(ruleRow{time: "Time", days: "Days", action: "Action", target: "Target", nextRun: "Next run", enabled: "Enabled"})
	lines = append(lines, styles.MutedText.Bold(true).Render(" "+strings.Join(header, gap)))

	loc := schedule.LoadLocation(m.dir.Timezone())
	now := m.now()
	visible := height - 1
	start := 0
	if m.selectedRow >= visible {
		start = m.selectedRow - visible + 1
	}
	end := min(len(m.rules), start+visible)

	for i := start; i < end; i++ {
		rule := m.rules[i]
		row := newRuleRow(rule, m.dir, loc, now)
		if i == m.selectedRow {
			lines = append(lines, styles.Selected.Width(m.width).Render(" "+strings.Join(columns(row), gap)))
			continue
		}
		cols := columns(row)
		cols[2] = styles.ActionStyle(rule.Action).Render(cell(row.action, colAction-2))
		textStyle := styles.Text
		if !rule.Enabled {
			textStyle = styles.FaintText
		}
		for j := range cols {
			if j != 2 {
				cols[j] = textStyle.Render(cols[j])
			}
		}
		lines = append(lines, " "+strings.Join(cols, gap))
	}

	return lipgloss.NewStyle().Height(height).MaxHeight(height).Render(strings.Join(lines, "\n"))
}

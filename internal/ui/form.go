package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/huntsched/internal/cascade"
	"github.com/five82/huntsched/internal/schedule"
)

type formField int

const (
	fieldHour formField = iota
	fieldMinute
	fieldDays
	fieldAction
	fieldApp
	fieldInstance
	fieldCount
)

var formActions = []schedule.Action{
	schedule.ActionDisable,
	schedule.ActionEnable,
	schedule.APICap(5),
	schedule.APICap(10),
	schedule.APICap(20),
	schedule.APICap(50),
	schedule.APICap(100),
}

// formSubmittedMsg carries validated input out of the add form.
type formSubmittedMsg struct {
	input schedule.NewRule
}

// addForm collects a new schedule rule. The app and instance selectors are
// driven by a cascade.Controller, which also derives the address.
type addForm struct {
	dir     schedule.InstanceLister
	hour    textinput.Model
	minute  textinput.Model
	days    [7]bool
	actions []schedule.Action
	action  int
	cascade *cascade.Controller
	focus   formField
	err     string
}

func newAddForm(dir schedule.InstanceLister, defaultAction string) *addForm {
	f := &addForm{
		dir:     dir,
		hour:    newClockInput("HH"),
		minute:  newClockInput("MM"),
		actions: append([]schedule.Action(nil), formActions...),
		cascade: cascade.New(dir),
	}
	for i := range f.days {
		f.days[i] = true
	}
	if a, err := schedule.ParseAction(defaultAction); err == nil {
		f.action = -1
		for i, candidate := range f.actions {
			if candidate == a {
				f.action = i
			}
		}
		if f.action < 0 {
			f.actions = append(f.actions, a)
			f.action = len(f.actions) - 1
		}
	}
	f.hour.Focus()
	return f
}

func newClockInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 2
	ti.Width = 3
	return ti
}

func (f *addForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, f.updateText(msg), false
	}

	switch {
	case key.Matches(km, keys.Cancel):
		return f, nil, true
	case key.Matches(km, keys.Confirm):
		return f.submit()
	case key.Matches(km, keys.NextField):
		return f, f.setFocus(f.focus + 1), false
	case key.Matches(km, keys.PrevField):
		return f, f.setFocus(f.focus - 1), false
	}

	if f.editingText() {
		if km.Type == tea.KeyRunes && !allDigits(km.Runes) {
			return f, nil, false
		}
		f.err = ""
		return f, f.updateText(km), false
	}

	f.err = ""
	switch {
	case key.Matches(km, keys.Left):
		f.cycle(-1)
	case key.Matches(km, keys.Right):
		f.cycle(1)
	case key.Matches(km, keys.Weekdays):
		f.setDays(0, 1, 2, 3, 4)
	case key.Matches(km, keys.Weekend):
		f.setDays(5, 6)
	case key.Matches(km, keys.AllDays):
		f.setDays(0, 1, 2, 3, 4, 5, 6)
	case km.Type == tea.KeyRunes && len(km.Runes) == 1 && km.Runes[0] >= '1' && km.Runes[0] <= '7':
		idx := int(km.Runes[0] - '1')
		f.days[idx] = !f.days[idx]
	}
	return f, nil, false
}

func allDigits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (f *addForm) editingText() bool {
	return f.focus == fieldHour || f.focus == fieldMinute
}

func (f *addForm) updateText(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldHour:
		f.hour, cmd = f.hour.Update(msg)
	case fieldMinute:
		f.minute, cmd = f.minute.Update(msg)
	}
	return cmd
}

func (f *addForm) setFocus(field formField) tea.Cmd {
	field = (field + fieldCount) % fieldCount
	if field == fieldInstance && !f.cascade.InstanceEnabled() {
		// skip the disabled selector in the direction of travel
		if f.focus == fieldApp {
			field = fieldHour
		} else {
			field = fieldApp
		}
	}
	f.focus = field
	f.hour.Blur()
	f.minute.Blur()
	switch field {
	case fieldHour:
		return f.hour.Focus()
	case fieldMinute:
		return f.minute.Focus()
	}
	return nil
}

func (f *addForm) cycle(delta int) {
	switch f.focus {
	case fieldAction:
		f.action = (f.action + delta + len(f.actions)) % len(f.actions)
	case fieldApp:
		if delta > 0 {
			f.cascade.NextApp()
		} else {
			f.cascade.PrevApp()
		}
	case fieldInstance:
		if delta > 0 {
			f.cascade.NextInstance()
		} else {
			f.cascade.PrevInstance()
		}
	}
}

func (f *addForm) setDays(indexes ...int) {
	for i := range f.days {
		f.days[i] = false
	}
	for _, i := range indexes {
		f.days[i] = true
	}
}

// refreshInstances repopulates the instance selector after a directory refresh.
func (f *addForm) refreshInstances() {
	f.cascade.Refresh()
	if f.focus == fieldInstance && !f.cascade.InstanceEnabled() {
		f.focus = fieldApp
	}
}

func (f *addForm) input() schedule.NewRule {
	var days []string
	for i, on := range f.days {
		if on {
			days = append(days, schedule.Weekdays[i])
		}
	}
	return schedule.NewRule{
		Hour:    f.hour.Value(),
		Minute:  f.minute.Value(),
		Action:  string(f.actions[f.action]),
		Days:    days,
		Address: f.cascade.Address(),
	}
}

func (f *addForm) submit() (Modal, tea.Cmd, bool) {
	in := f.input()
	if _, err := in.Validate(); err != nil {
		f.err = validationMessage(err)
		return f, nil, false
	}
	return f, func() tea.Msg { return formSubmittedMsg{input: in} }, true
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, schedule.ErrInvalidTime):
		return "Enter an hour 0-23 and a minute 0-59"
	case errors.Is(err, schedule.ErrNoDays):
		return "Pick at least one day"
	case errors.Is(err, schedule.ErrInvalidAction):
		return "Pick an action"
	}
	return err.Error()
}

func (f *addForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	label := func(focused bool, text string) string {
		marker := "  "
		style := styles.MutedText
		if focused {
			marker = "› "
			style = styles.AccentText
		}
		return style.Render(marker + padRight(text, 10))
	}
	choice := func(field formField, text string, enabled bool) string {
		if !enabled {
			return styles.FaintText.Render(text)
		}
		if f.focus == field {
			return styles.AccentText.Render("‹ ") + styles.Text.Bold(true).Render(text) + styles.AccentText.Render(" ›")
		}
		return styles.Text.Render(text)
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Add schedule"))
	b.WriteString("\n\n")

	b.WriteString(label(f.editingText(), "Time"))
	b.WriteString(f.hour.View())
	b.WriteString(styles.MutedText.Render(" : "))
	b.WriteString(f.minute.View())
	b.WriteString("\n")

	b.WriteString(label(f.focus == fieldDays, "Days"))
	dayParts := make([]string, 0, len(f.days))
	for i, on := range f.days {
		name := fmt.Sprintf("%d %s", i+1, strings.ToUpper(schedule.Weekdays[i][:1])+schedule.Weekdays[i][1:3])
		if on {
			dayParts = append(dayParts, styles.SuccessText.Render("■ "+name))
		} else {
			dayParts = append(dayParts, styles.FaintText.Render("□ "+name))
		}
	}
	b.WriteString(strings.Join(dayParts[:4], " "))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", 12))
	b.WriteString(strings.Join(dayParts[4:], " "))
	b.WriteString("\n")

	b.WriteString(label(f.focus == fieldAction, "Action"))
	b.WriteString(choice(fieldAction, f.actions[f.action].Label(), true))
	b.WriteString("\n")

	b.WriteString(label(f.focus == fieldApp, "App"))
	b.WriteString(choice(fieldApp, f.cascade.App().Label(), true))
	b.WriteString("\n")

	b.WriteString(label(f.focus == fieldInstance, "Instance"))
	b.WriteString(choice(fieldInstance, f.cascade.Selected().Name, f.cascade.InstanceEnabled()))
	b.WriteString("\n\n")

	b.WriteString(styles.MutedText.Render("  " + padRight("Target", 10)))
	b.WriteString(styles.Text.Render(schedule.Describe(f.cascade.Address(), f.dir)))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  " + padRight("Address", 10)))
	b.WriteString(styles.FaintText.Render(f.cascade.Address()))
	b.WriteString("\n")

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("tab next  ←/→ change  1-7 w W A days  enter save  esc cancel"))

	return placeModal(theme, theme.Accent, width, height, b.String())
}

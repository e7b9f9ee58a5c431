// Package ui provides the huntsched terminal user interface.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns all view state and talks to the
// rest of the application through two narrow interfaces: ScheduleStore for
// rule mutations and Directory for instance lists. Slow calls run inside
// tea.Cmd functions and report back as messages; Update never blocks.
//
// # Package Structure
//
//   - app.go: Model, Update loop, messages and commands, Run
//   - list.go: schedule table with next-run preview
//   - form.go: add form; app and instance selectors go through cascade
//   - modal.go: Modal interface and the delete confirmation
//   - logview.go: scrollable tail of the application log
//   - header.go: status bar and command hints
//   - toast.go: transient notifications
//   - help.go, keys.go: key bindings and the help overlay
//   - theme.go, style_helpers.go: palettes and lipgloss helpers
//
// # Event Flow
//
//  1. Run() builds the Model and subscribes it to the event bus
//  2. Key presses open modals or start store commands
//  3. Save outcomes arrive as events.SaveCompleted and become toasts
//  4. "I" publishes events.InstancesChanged; the refresher answers with
//     events.DirectoryRefreshed and an open add form repopulates its
//     instance selector
//
// # Key Bindings
//
//   - j/k, g/G: Move selection
//   - a: Add a schedule
//   - d: Delete the selected schedule (with confirmation)
//   - r: Reload schedules and instances
//   - I: Broadcast an instances-changed signal
//   - L: Show the tail of the log file
//   - T: Cycle theme
//   - ?: Help
//   - q or Ctrl+C: Exit
package ui

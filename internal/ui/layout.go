package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutNextRunWidth is the minimum width to show the next-run column.
	LayoutNextRunWidth = 90

	// FormWidth is the width of the add form and confirm modals.
	FormWidth = 64
)

// Timing constants.
const (
	// ToastDuration is how long a toast stays on screen.
	ToastDuration = 4 * time.Second

	// ClockTick refreshes the header clock and next-run column.
	ClockTick = 30 * time.Second

	// ActionTimeout bounds a single store or directory call started from the UI.
	ActionTimeout = 30 * time.Second
)

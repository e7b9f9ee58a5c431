package ui

import (
	"testing"

	"github.com/five82/huntsched/internal/schedule"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want Nightfox first and Slate last", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("Unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(Unknown) = %q, want Nightfox", got)
	}
}

func TestGetTheme_FallsBack(t *testing.T) {
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestActionColorKey(t *testing.T) {
	tests := map[schedule.Action]string{
		schedule.ActionEnable:  "enable",
		schedule.ActionResume:  "enable",
		schedule.ActionDisable: "disable",
		schedule.ActionPause:   "disable",
		schedule.APICap(10):    "api",
		"weird":                "unknown",
	}
	for action, want := range tests {
		if got := actionColorKey(action); got != want {
			t.Fatalf("actionColorKey(%q) = %q, want %q", action, got, want)
		}
	}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, k := range []string{"enable", "disable", "api", "unknown"} {
			if th.ActionColors[k] == "" {
				t.Fatalf("theme %s has no %s color", name, k)
			}
		}
	}
}

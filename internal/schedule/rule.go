package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidTime is returned when hour or minute is not a valid integer in range.
	ErrInvalidTime = errors.New("invalid time")
	// ErrNoDays is returned when a rule has no weekdays selected.
	ErrNoDays = errors.New("select at least one day")
	// ErrInvalidAction is returned for actions outside enable/disable/api-N.
	ErrInvalidAction = errors.New("invalid action")
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Minutes returns minutes since midnight, used for ordering.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock decodes a wire time, which is either {"hour":H,"minute":M}
// (numbers or numeric strings) or "HH:MM[:SS]". Anything unparseable is 00:00.
func ParseClock(raw json.RawMessage) Clock {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return Clock{}
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Clock{}
		}
		// "HH:MM" or "HH:MM:SS"; seconds are ignored.
		parts := strings.Split(strings.TrimSpace(s), ":")
		if len(parts) < 2 {
			return Clock{}
		}
		return clampClock(atoiOrZero(parts[0]), atoiOrZero(parts[1]))
	}
	var obj struct {
		Hour   json.RawMessage `json:"hour"`
		Minute json.RawMessage `json:"minute"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Clock{}
	}
	return clampClock(atoiOrZero(unquote(obj.Hour)), atoiOrZero(unquote(obj.Minute)))
}

// unquote strips JSON string quotes so "05" and 5 parse alike.
func unquote(raw json.RawMessage) string {
	return strings.Trim(strings.TrimSpace(string(raw)), `"`)
}

func clampClock(hour, minute int) Clock {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}
	}
	return Clock{Hour: hour, Minute: minute}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ParseHourMinute validates user-entered hour and minute fields.
func ParseHourMinute(hour, minute string) (Clock, error) {
	h, err := strconv.Atoi(strings.TrimSpace(hour))
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("%w: hour %q", ErrInvalidTime, hour)
	}
	m, err := strconv.Atoi(strings.TrimSpace(minute))
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("%w: minute %q", ErrInvalidTime, minute)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// Weekdays in display order.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var weekdayIndex = func() map[string]int {
	idx := make(map[string]int, len(Weekdays))
	for i, d := range Weekdays {
		idx[d] = i
	}
	return idx
}()

// IsWeekday reports whether token is one of Weekdays.
func IsWeekday(token string) bool {
	_, ok := weekdayIndex[token]
	return ok
}

// SortDays returns a Monday-first copy of days with unknown tokens last.
func SortDays(days []string) []string {
	out := append([]string(nil), days...)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := weekdayIndex[out[i]]
		b, bok := weekdayIndex[out[j]]
		if !aok {
			a = len(Weekdays)
		}
		if !bok {
			b = len(Weekdays)
		}
		return a < b
	})
	return out
}

// FormatDays renders days for display: "Every day", "Weekdays", "Weekends" or
// a comma list of three-letter names.
func FormatDays(days []string) string {
	set := make(map[string]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	has := func(names ...string) bool {
		for _, n := range names {
			if !set[n] {
				return false
			}
		}
		return true
	}
	switch {
	case len(set) == 0:
		return "No days"
	case len(set) == 7 && has(Weekdays...):
		return "Every day"
	case len(set) == 5 && has(Weekdays[:5]...):
		return "Weekdays"
	case len(set) == 2 && has("saturday", "sunday"):
		return "Weekends"
	}
	parts := make([]string, 0, len(set))
	for _, d := range SortDays(days) {
		if len(d) >= 3 {
			parts = append(parts, strings.ToUpper(d[:1])+d[1:3])
		} else {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, ", ")
}

// Action is a rule action: enable, disable, the legacy resume/pause
// synonyms, or an API cap "api-<limit>".
type Action string

const (
	ActionEnable  Action = "enable"
	ActionDisable Action = "disable"
	ActionResume  Action = "resume"
	ActionPause   Action = "pause"

	apiCapPrefix = "api-"
)

// APICap builds an API cap action.
func APICap(limit int) Action {
	return Action(apiCapPrefix + strconv.Itoa(limit))
}

// ParseAction validates an action token.
func ParseAction(token string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(token)))
	switch a {
	case ActionEnable, ActionDisable, ActionResume, ActionPause:
		return a, nil
	}
	if _, ok := a.APILimit(); ok {
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAction, token)
}

// APILimit returns the hourly cap for api-<limit> actions.
func (a Action) APILimit() (int, bool) {
	rest, ok := strings.CutPrefix(string(a), apiCapPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Enables reports whether the action turns hunting on.
func (a Action) Enables() bool {
	return a == ActionEnable || a == ActionResume
}

// Label renders the action for display.
func (a Action) Label() string {
	switch a {
	case ActionEnable, ActionResume:
		return "Enable"
	case ActionDisable, ActionPause:
		return "Disable"
	}
	if n, ok := a.APILimit(); ok {
		return fmt.Sprintf("API cap: %d/hr", n)
	}
	return string(a)
}

// Rule is a normalised schedule rule.
type Rule struct {
	ID      string
	Time    Clock
	Days    []string
	Action  Action
	Address string
	App     AppType
	Enabled bool
}

func (r Rule) clone() Rule {
	days := make([]string, len(r.Days))
	copy(days, r.Days)
	r.Days = days
	return r
}

// NewRuleID returns "<unix-ms>_<random>".
func NewRuleID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d_%s", now.UnixMilli(), suffix)
}

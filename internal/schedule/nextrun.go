package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CronSpec returns the five-field cron expression equivalent to the rule.
func (r Rule) CronSpec() (string, bool) {
	var dows []string
	for _, day := range SortDays(r.Days) {
		if IsWeekday(day) {
			dows = append(dows, day[:3])
		}
	}
	if len(dows) == 0 {
		return "", false
	}
	return fmt.Sprintf("%d %d * * %s", r.Time.Minute, r.Time.Hour, strings.Join(dows, ",")), true
}

// NextRun reports when the rule next fires after now in loc. Disabled rules
// and rules without days never fire.
func NextRun(r Rule, loc *time.Location, now time.Time) (time.Time, bool) {
	if !r.Enabled {
		return time.Time{}, false
	}
	spec, ok := r.CronSpec()
	if !ok {
		return time.Time{}, false
	}
	sched, err := cronParser.Parse(spec)
	if err != nil {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	return sched.Next(now.In(loc)), true
}

// LoadLocation resolves a server timezone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

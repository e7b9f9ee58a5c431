package schedule

import (
	"testing"
	"time"
)

func TestRule_CronSpec(t *testing.T) {
	r := Rule{Time: Clock{6, 5}, Days: []string{"friday", "monday", "bogus"}}
	spec, ok := r.CronSpec()
	if !ok || spec != "5 6 * * mon,fri" {
		t.Fatalf("CronSpec = %q, %v; want \"5 6 * * mon,fri\"", spec, ok)
	}
	if _, ok := (Rule{}).CronSpec(); ok {
		t.Fatalf("CronSpec for empty days reported ok")
	}
}

func TestNextRun(t *testing.T) {
	loc := time.FixedZone("X", 2*60*60)
	// Wednesday 2024-01-03 10:00 in loc.
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, loc)

	r := Rule{Time: Clock{9, 30}, Days: []string{"wednesday", "friday"}, Enabled: true}
	next, ok := NextRun(r, loc, now)
	if !ok {
		t.Fatalf("NextRun reported no run")
	}
	want := time.Date(2024, 1, 5, 9, 30, 0, 0, loc)
	if !next.Equal(want) {
		t.Fatalf("NextRun = %v, want %v", next, want)
	}

	r.Enabled = false
	if _, ok := NextRun(r, loc, now); ok {
		t.Fatalf("NextRun for disabled rule reported a run")
	}
}

func TestLoadLocation_FallsBackToUTC(t *testing.T) {
	if got := LoadLocation("Not/AZone"); got != time.UTC {
		t.Fatalf("LoadLocation(invalid) = %v, want UTC", got)
	}
	if got := LoadLocation(""); got != time.UTC {
		t.Fatalf("LoadLocation(\"\") = %v, want UTC", got)
	}
}

package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/five82/huntsched/internal/huntarr"
	"github.com/five82/huntsched/internal/schedule"
)

type fakeSource struct {
	settings   huntarr.Settings
	settingErr error
	movies     []huntarr.HuntInstance
	movieErr   error
	shows      []huntarr.HuntInstance
	showErr    error
}

func (f *fakeSource) FetchSettings(context.Context) (huntarr.Settings, error) {
	return f.settings, f.settingErr
}

func (f *fakeSource) FetchMovieHuntInstances(context.Context) ([]huntarr.HuntInstance, error) {
	return f.movies, f.movieErr
}

func (f *fakeSource) FetchTVHuntInstances(context.Context) ([]huntarr.HuntInstance, error) {
	return f.shows, f.showErr
}

func TestCache_EmptyBeforeRefresh(t *testing.T) {
	c := New(&fakeSource{}, zerolog.Nop())
	if got := c.Instances(schedule.Sonarr); len(got) != 0 {
		t.Fatalf("Instances before refresh = %#v, want empty", got)
	}
	if c.Snapshot().Loaded() {
		t.Fatalf("Loaded() = true before refresh")
	}
	if c.Timezone() != "UTC" {
		t.Fatalf("Timezone = %q, want UTC", c.Timezone())
	}
}

func TestCache_RefreshPopulatesAllSources(t *testing.T) {
	src := &fakeSource{
		settings: huntarr.Settings{
			General: huntarr.GeneralSettings{Timezone: "UTC", EffectiveTimezone: "America/New_York"},
			Apps: map[string][]huntarr.AppInstance{
				"sonarr": {{InstanceID: "abc", Name: "Main"}, {Name: "Legacy"}},
			},
		},
		movies: []huntarr.HuntInstance{{ID: 7, Name: "Films"}},
		shows:  []huntarr.HuntInstance{{ID: 3}},
	}
	c := New(src, zerolog.Nop())
	snap := c.Refresh(context.Background())

	if !snap.Loaded() || len(snap.Errors) != 0 {
		t.Fatalf("snapshot = %+v, want loaded without errors", snap)
	}
	sonarr := c.Instances(schedule.Sonarr)
	if len(sonarr) != 2 || sonarr[0].ID != "abc" || sonarr[1].ID != "1" || sonarr[1].Name != "Legacy" {
		t.Fatalf("sonarr = %#v, want abc and index fallback 1", sonarr)
	}
	if got := c.Instances(schedule.MovieHunt); len(got) != 1 || got[0].ID != "7" || got[0].Name != "Films" {
		t.Fatalf("movie hunt = %#v, want id 7 Films", got)
	}
	if got := c.Instances(schedule.TVHunt); len(got) != 1 || got[0].Name != "Instance 3" {
		t.Fatalf("tv hunt = %#v, want generated name", got)
	}
	if c.Timezone() != "America/New_York" {
		t.Fatalf("Timezone = %q, want effective timezone", c.Timezone())
	}
	if got := c.Instances(schedule.Global); len(got) != 0 {
		t.Fatalf("global = %#v, want empty", got)
	}
}

func TestCache_PartialFailureDegradesToEmpty(t *testing.T) {
	src := &fakeSource{
		settings: huntarr.Settings{Apps: map[string][]huntarr.AppInstance{
			"radarr": {{InstanceID: "r1", Name: "4K"}},
		}},
		movieErr: errors.New("connection refused"),
		shows:    []huntarr.HuntInstance{{ID: 1, Name: "Shows"}},
	}
	c := New(src, zerolog.Nop())
	snap := c.Refresh(context.Background())

	if snap.Errors["movie_hunt"] == nil || len(snap.Errors) != 1 {
		t.Fatalf("Errors = %v, want only movie_hunt", snap.Errors)
	}
	if got := c.Instances(schedule.Radarr); len(got) != 1 || got[0].Name != "4K" {
		t.Fatalf("radarr = %#v, want 4K", got)
	}
	if got := c.Instances(schedule.MovieHunt); len(got) != 0 {
		t.Fatalf("movie hunt = %#v, want empty after failure", got)
	}
	if got := c.Instances(schedule.TVHunt); len(got) != 1 {
		t.Fatalf("tv hunt = %#v, want 1", got)
	}
}

func TestCache_RefreshReplacesPreviousLists(t *testing.T) {
	src := &fakeSource{movies: []huntarr.HuntInstance{{ID: 42, Name: "Old"}}}
	c := New(src, zerolog.Nop())
	c.Refresh(context.Background())

	src.movies = nil
	c.Refresh(context.Background())

	if got := schedule.Describe("movie_hunt::42", c); got != "Movie Hunt — Instance 42" {
		t.Fatalf("Describe after removal = %q, want generic label", got)
	}
}

func TestCache_InstancesReturnsCopy(t *testing.T) {
	src := &fakeSource{movies: []huntarr.HuntInstance{{ID: 1, Name: "A"}}}
	c := New(src, zerolog.Nop())
	c.Refresh(context.Background())

	got := c.Instances(schedule.MovieHunt)
	got[0].Name = "mutated"
	if c.Instances(schedule.MovieHunt)[0].Name != "A" {
		t.Fatalf("Instances should return a copy")
	}
}

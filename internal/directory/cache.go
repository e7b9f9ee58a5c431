// Package directory caches the instance lists of every app type.
package directory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/five82/huntsched/internal/huntarr"
	"github.com/five82/huntsched/internal/schedule"
)

// Source is the subset of the Huntarr API the cache reads.
type Source interface {
	FetchSettings(ctx context.Context) (huntarr.Settings, error)
	FetchMovieHuntInstances(ctx context.Context) ([]huntarr.HuntInstance, error)
	FetchTVHuntInstances(ctx context.Context) ([]huntarr.HuntInstance, error)
}

// Snapshot is the directory as of the last refresh.
type Snapshot struct {
	Instances   map[schedule.AppType][]schedule.Instance
	Timezone    string
	LastUpdated time.Time
	// Errors holds the failure of each source that did not load, keyed
	// "settings", "movie_hunt" or "tv_hunt".
	Errors map[string]error
}

// Loaded reports whether at least one refresh has completed.
func (s Snapshot) Loaded() bool {
	return !s.LastUpdated.IsZero()
}

// Cache holds the instance lists for every app type. It has no TTL: the
// contents change only on Refresh.
type Cache struct {
	src Source
	log zerolog.Logger

	mu       sync.RWMutex
	snapshot Snapshot
}

// New returns an empty cache reading from src.
func New(src Source, logger zerolog.Logger) *Cache {
	return &Cache{
		src: src,
		log: logger.With().Str("component", "directory").Logger(),
	}
}

// Refresh fetches settings, Movie Hunt and TV Hunt instances in parallel and
// replaces the cached lists once all three have finished. A failed source
// leaves its app types empty; Refresh itself never fails.
func (c *Cache) Refresh(ctx context.Context) Snapshot {
	var (
		settings   huntarr.Settings
		movies     []huntarr.HuntInstance
		shows      []huntarr.HuntInstance
		settingErr error
		movieErr   error
		showErr    error
	)

	// Every goroutine returns nil so one failure never cancels the others.
	var g errgroup.Group
	g.Go(func() error {
		settings, settingErr = c.src.FetchSettings(ctx)
		return nil
	})
	g.Go(func() error {
		movies, movieErr = c.src.FetchMovieHuntInstances(ctx)
		return nil
	})
	g.Go(func() error {
		shows, showErr = c.src.FetchTVHuntInstances(ctx)
		return nil
	})
	_ = g.Wait()

	next := Snapshot{
		Instances:   make(map[schedule.AppType][]schedule.Instance, len(schedule.AllAppTypes)),
		Timezone:    "UTC",
		LastUpdated: time.Now(),
		Errors:      make(map[string]error),
	}

	if settingErr != nil {
		next.Errors["settings"] = settingErr
		c.log.Warn().Err(settingErr).Msg("settings fetch failed; standard app instances unavailable")
	} else {
		for _, app := range schedule.StandardApps() {
			next.Instances[app] = standardEntries(settings.Apps[app.String()])
		}
		if tz := strings.TrimSpace(settings.General.EffectiveTimezone); tz != "" {
			next.Timezone = tz
		} else if tz := strings.TrimSpace(settings.General.Timezone); tz != "" {
			next.Timezone = tz
		}
	}
	if movieErr != nil {
		next.Errors[schedule.MovieHunt.String()] = movieErr
		c.log.Warn().Err(movieErr).Msg("movie hunt instances fetch failed")
	} else {
		next.Instances[schedule.MovieHunt] = huntEntries(movies)
	}
	if showErr != nil {
		next.Errors[schedule.TVHunt.String()] = showErr
		c.log.Warn().Err(showErr).Msg("tv hunt instances fetch failed")
	} else {
		next.Instances[schedule.TVHunt] = huntEntries(shows)
	}

	c.mu.Lock()
	c.snapshot = next
	c.mu.Unlock()

	c.log.Debug().Int("failed_sources", len(next.Errors)).Msg("directory refreshed")
	return c.Snapshot()
}

// standardEntries keys instances by instance_id, falling back to the array
// index for instances saved before ids existed.
func standardEntries(instances []huntarr.AppInstance) []schedule.Instance {
	out := make([]schedule.Instance, 0, len(instances))
	for i, inst := range instances {
		id := strings.TrimSpace(inst.InstanceID)
		if id == "" {
			id = strconv.Itoa(i)
		}
		name := strings.TrimSpace(inst.Name)
		if name == "" {
			name = fmt.Sprintf("Instance %d", i+1)
		}
		out = append(out, schedule.Instance{ID: id, Name: name})
	}
	return out
}

func huntEntries(instances []huntarr.HuntInstance) []schedule.Instance {
	out := make([]schedule.Instance, 0, len(instances))
	for _, inst := range instances {
		id := strconv.FormatInt(inst.ID, 10)
		name := strings.TrimSpace(inst.Name)
		if name == "" {
			name = "Instance " + id
		}
		out = append(out, schedule.Instance{ID: id, Name: name})
	}
	return out
}

// Instances returns a copy of the cached list for app, empty when the cache
// has not loaded or the app has no instances.
func (c *Cache) Instances(app schedule.AppType) []schedule.Instance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneInstances(c.snapshot.Instances[app])
}

// Timezone returns the server's effective timezone, "UTC" until loaded.
func (c *Cache) Timezone() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot.Timezone == "" {
		return "UTC"
	}
	return c.snapshot.Timezone
}

// Snapshot returns a copy of the current directory.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := c.snapshot
	snap.Instances = make(map[schedule.AppType][]schedule.Instance, len(c.snapshot.Instances))
	for app, list := range c.snapshot.Instances {
		snap.Instances[app] = cloneInstances(list)
	}
	snap.Errors = make(map[string]error, len(c.snapshot.Errors))
	for k, err := range c.snapshot.Errors {
		snap.Errors[k] = err
	}
	return snap
}

func cloneInstances(list []schedule.Instance) []schedule.Instance {
	if len(list) == 0 {
		return nil
	}
	dup := make([]schedule.Instance, len(list))
	copy(dup, list)
	return dup
}

package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/five82/huntsched/internal/directory"
	"github.com/five82/huntsched/internal/events"
)

// Refresher reloads the instance directory.
type Refresher interface {
	Refresh(ctx context.Context) directory.Snapshot
}

// StartRefresher subscribes to bus and refreshes dir for every
// InstancesChanged event, publishing the result as DirectoryRefreshed. The
// subscription is in place when StartRefresher returns; the returned channel
// closes once the goroutine has exited after ctx is cancelled.
func StartRefresher(ctx context.Context, bus *events.Bus, dir Refresher, logger zerolog.Logger) <-chan struct{} {
	log := logger.With().Str("component", "refresher").Logger()
	ch, unsubscribe := bus.Subscribe(16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if ev.Topic != events.InstancesChanged {
					continue
				}
				snap := refresh(ctx, dir, log)
				if ctx.Err() != nil {
					return
				}
				bus.Publish(events.Event{Topic: events.DirectoryRefreshed, Data: snap})
			}
		}
	}()
	return done
}

func refresh(ctx context.Context, dir Refresher, log zerolog.Logger) directory.Snapshot {
	snap := dir.Refresh(ctx)
	total := 0
	for _, list := range snap.Instances {
		total += len(list)
	}
	ev := log.Debug()
	if len(snap.Errors) > 0 {
		ev = log.Warn().Int("failed_sources", len(snap.Errors))
	}
	ev.Int("instances", total).Str("timezone", snap.Timezone).Msg("directory refreshed")
	return snap
}

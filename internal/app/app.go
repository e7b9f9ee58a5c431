package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/huntsched/internal/config"
	"github.com/five82/huntsched/internal/directory"
	"github.com/five82/huntsched/internal/events"
	"github.com/five82/huntsched/internal/huntarr"
	"github.com/five82/huntsched/internal/logging"
	"github.com/five82/huntsched/internal/prefs"
	"github.com/five82/huntsched/internal/schedule"
	"github.com/five82/huntsched/internal/ui"
)

// Options configure the huntsched application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/huntsched/prefs.toml
	ServerURL  string // overrides server_url from the config file
	Debug      bool
}

const flushTimeout = 5 * time.Second

// Run boots the huntsched TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.ServerURL != "" {
		cfg.ServerURL = opts.ServerURL
	}
	if opts.Debug {
		cfg.LogLevel = zerolog.LevelDebugValue
	}

	logger, closer, err := logging.New(logging.Options{Path: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := huntarr.NewClient(cfg.ServerURL, cfg.BasePath, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init huntarr client: %w", err)
	}
	logger.Info().Str("server", client.BaseURL()).Msg("starting")

	bus := events.New()
	dir := directory.New(client, logger)
	store := schedule.NewStore(client, schedule.StoreOptions{
		Logger: logger,
		OnSave: func(err error) {
			bus.Publish(events.Event{Topic: events.SaveCompleted, Data: err})
		},
	})
	defer store.Close()

	refreshCtx, stopRefresher := context.WithCancel(ctx)
	refresherDone := StartRefresher(refreshCtx, bus, dir, logger)
	defer func() {
		stopRefresher()
		<-refresherDone
	}()

	// Populate the directory and schedules before the UI starts
	refresh(ctx, dir, logger)
	loadErr := store.Load(ctx)

	err = ui.Run(ui.Options{
		Context:       ctx,
		Store:         store,
		Directory:     dir,
		Bus:           bus,
		ServerURL:     client.BaseURL(),
		ThemeName:     userPrefs.Theme,
		DefaultAction: userPrefs.DefaultAction,
		PrefsPath:     opts.PrefsPath,
		LogPath:       cfg.LogFile,
		Logger:        logger,
		LoadErr:       loadErr,
	})

	flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if ferr := store.Flush(flushCtx); ferr != nil {
		logger.Warn().Err(ferr).Msg("pending schedule save did not complete")
	}
	return err
}

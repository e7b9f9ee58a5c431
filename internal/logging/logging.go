// Package logging builds the zerolog logger. The TUI owns the terminal, so
// output goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Options configure the logger.
type Options struct {
	// Path of the log file. Empty discards all output.
	Path  string
	Level string
	// Console switches to human-readable output.
	Console bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New opens the log file and returns a logger writing to it. The returned
// closer releases the file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	zerolog.ErrorFieldName = "err"

	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
	}

	var out io.Writer = file
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: file, NoColor: true, TimeFormat: "2006-01-02T15:04:05.000Z07:00"}
	}
	logger := zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().Timestamp().Str("app", "huntsched").
		Logger()
	return logger, file, nil
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

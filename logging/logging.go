// Package logging configures the zerolog loggers used by pipeline runs.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// CreateLogger returns a logger writing structured JSON events to w at the
// given level.
func CreateLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// CreateConsoleLogger returns a logger writing human-readable events to
// stderr, for interactive cleaning sessions.
func CreateConsoleLogger(level zerolog.Level) zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// Discard returns a logger that drops all events.
func Discard() zerolog.Logger {
	return zerolog.Nop()
}

package main

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// createLogger writes to the app's error stream so that command output on
// the standard stream stays machine-readable.
func createLogger(c *cli.Context) *zerolog.Logger {
	level, err := zerolog.ParseLevel(c.String(logLevelFlag))
	if err != nil {
		level = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{
		Out:        c.App.ErrWriter,
		TimeFormat: time.RFC3339,
	}
	log := zerolog.New(writer).With().Timestamp().Logger().Level(level)
	return &log
}

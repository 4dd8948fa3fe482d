// Package logging constructs the zerolog loggers used across the service.
// Production output is JSON on stderr; console format is available for
// development.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging options.
type Config struct {
	// Level is the minimum level: debug, info, warn, error. Default info.
	Level string
	// Format is json or console. Default json.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New builds the root logger.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Component tags a child logger with the subsystem that owns it.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

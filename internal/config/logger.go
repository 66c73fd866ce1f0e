package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// AppName tags every log line.
const AppName = "restaurant-dashboard"

// NewLogger creates the root logger. Output goes to stdout as JSON, or as
// human-readable lines when the format is "console".
func NewLogger(cfg LoggerConfig) zerolog.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg LoggerConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	out := w
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).With().Timestamp().Str("app", AppName).Logger()
}

package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is stamped on every log line.
const ServiceName = "autopartes"

var logLevels = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

// ParseLevel maps the configured level name to a zerolog level.
func (c LoggerConfig) ParseLevel() (zerolog.Level, error) {
	level, ok := logLevels[c.Level]
	if !ok {
		return zerolog.NoLevel, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return level, nil
}

// NewLogger creates the root logger. Console output also carries the caller.
func NewLogger(cfg LoggerConfig) zerolog.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg LoggerConfig, out io.Writer) zerolog.Logger {
	level, err := cfg.ParseLevel()
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Caller().
			Str("service", ServiceName).
			Logger()
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Str("service", ServiceName).
		Logger()
}

package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerConfig_ParseLevel(t *testing.T) {
	tests := []struct {
		level       string
		expected    zerolog.Level
		expectError bool
	}{
		{level: "debug", expected: zerolog.DebugLevel},
		{level: "info", expected: zerolog.InfoLevel},
		{level: "warn", expected: zerolog.WarnLevel},
		{level: "error", expected: zerolog.ErrorLevel},
		{level: "trace", expectError: true},
		{level: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := LoggerConfig{Level: tt.level}.ParseLevel()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid log level")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestNewLogger_JSONCarriesServiceField(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	var buf bytes.Buffer
	logger := newLogger(LoggerConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("dropped")
	logger.Warn().Str("uid", "u1").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, ServiceName, entry["service"])
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "u1", entry["uid"])
	assert.NotContains(t, entry, "caller")
}

func TestNewLogger_ConsoleAddsCaller(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	var buf bytes.Buffer
	logger := newLogger(LoggerConfig{Level: "info", Format: "console"}, &buf)

	logger.Info().Msg("listening")

	out := buf.String()
	assert.Contains(t, out, "listening")
	assert.Contains(t, out, "logger_test.go")
	assert.Contains(t, out, ServiceName)
}

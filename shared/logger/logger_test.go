package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pxltravel/config"
	"pxltravel/shared/logger"
)

func TestInitLogger(t *testing.T) {
	original := log.Logger
	defer func() { log.Logger = original }()

	cfg := &config.Config{}
	cfg.Server.Env = "production"

	logger.InitLogger(cfg)

	assert.Equal(t, time.RFC3339Nano, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
	assert.NotNil(t, zerolog.ErrorStackMarshaler)
}

func TestErrorWithStack(t *testing.T) {
	original := log.Logger
	defer func() { log.Logger = original }()

	logger.InitLogger(&config.Config{})

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger.ErrorWithStack(errors.New("insert booking failed"))

	entry := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "insert booking failed", entry["error"])
	assert.Contains(t, buf.String(), "logger_test.go")
	assert.NotEmpty(t, entry["stack"])
}

func TestSetLogLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		logLevel string
		expected zerolog.Level
	}{
		{logLevel: "debug", expected: zerolog.DebugLevel},
		{logLevel: "info", expected: zerolog.InfoLevel},
		{logLevel: "warn", expected: zerolog.WarnLevel},
		{logLevel: "error", expected: zerolog.ErrorLevel},
		{logLevel: "", expected: zerolog.TraceLevel},
		{logLevel: "verbose", expected: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Server.LogLevel = tt.logLevel

			logger.SetLogLevel(cfg)

			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}

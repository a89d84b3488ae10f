// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"

	"pxltravel/config"
	"pxltravel/shared/constant"
)

const defaultLevel = zerolog.TraceLevel

// InitLogger writes JSON lines in production and colored console lines everywhere else.
// Every entry carries the app name and, for errors logged through ErrorWithStack, a stack.
func InitLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.SetGlobalLevel(defaultLevel)

	log.Logger = zerolog.New(output(cfg.Server.Env, os.Stdout)).
		With().
		Timestamp().
		Str("app", cfg.App.Name).
		Str("env", cfg.Server.Env).
		Logger()
}

func output(env string, out io.Writer) io.Writer {
	if env == constant.ServerEnvProduction {
		return out
	}

	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
}

// ErrorWithStack logs err together with the stack of the caller.
func ErrorWithStack(err error) {
	log.Error().Stack().Err(errors.WithStack(err)).Msg("unexpected error")
}

// SetLogLevel applies the configured level. An empty or unknown level means trace.
func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("level", cfg.Server.LogLevel).Msgf("unknown log level, falling back to %s", defaultLevel)

		level = defaultLevel
	}

	zerolog.SetGlobalLevel(level)
}

package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/crmpanel/internal/config"
)

// NewLogger creates a structured zerolog.Logger tagged with the service name
// from the config. LOG_PRETTY switches to human-readable console output.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return New(os.Stdout, cfg.ServiceName, cfg.LogLevel, cfg.LogPretty)
}

// New builds a logger writing to out.
func New(out io.Writer, service, level string, pretty bool) zerolog.Logger {
	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if service != "" {
		ctx = ctx.Str("service", service)
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return ctx.Logger().Level(lvl)
}

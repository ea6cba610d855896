// Package logger configures the process-wide zerolog root logger. Every
// service and handler derives a child from it tagged with a "component"
// field, so one line here governs the shape of all log output.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName appears on every log line so aggregated logs from several
// deployments stay attributable.
const ServiceName = "siakad-backend"

// Setup builds the root logger. format "pretty" switches to the
// human-readable console writer for development; anything else stays
// machine-parseable JSON. An unknown level falls back to info rather
// than failing startup.
func Setup(level, format string) zerolog.Logger {
	var writer io.Writer = os.Stdout
	if strings.EqualFold(format, "pretty") {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(writer).
		With().
		Timestamp().
		Str("service", ServiceName).
		Logger()
}

package logx

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitFromEnv configures zerolog using env vars.
// - LOG_LEVEL  : trace|debug|info|warn|error (default: info)
// - LOG_FORMAT : json|console                (default: console)
func InitFromEnv() {
	Init(getenv("LOG_LEVEL", "info"), getenv("LOG_FORMAT", "console"))
}

// Init configures the global logger. Logs go to stderr so stdout only
// carries command output.
func Init(level, format string) {
	initTo(os.Stderr, level, format)
}

func initTo(w io.Writer, level, format string) {
	// Always use UTC timestamps in RFC3339.
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }

	zerolog.SetGlobalLevel(ParseLevel(level))

	var logger zerolog.Logger
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		cw := zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
			cw.Out = w
			cw.TimeFormat = time.RFC3339
		})
		logger = zerolog.New(cw).With().Timestamp().Logger()
	}
	log.Logger = logger
}

// ParseLevel maps a level name to zerolog; unknown names mean info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// getenv returns the env var value if set and non-empty, otherwise def.
func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// Package logging configures the process-wide slog logger.
//
// The level comes from configuration and may be overridden by the LOG_LEVEL
// environment variable. Output goes to stderr as JSON or text, and every
// record carries the module name and version.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel overrides the configured log level when set.
const EnvLevel = "LOG_LEVEL"

// ParseLevel maps a case-insensitive level name to a slog.Level. Unknown
// names fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger writing to w. Debug loggers include source locations.
func New(w io.Writer, level, format, module, version string) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		"module", module,
		"version", version,
	)
}

// Setup installs a stderr logger as the slog default and returns it.
func Setup(level, format, module, version string) *slog.Logger {
	if env := os.Getenv(EnvLevel); env != "" {
		level = env
	}
	logger := New(os.Stderr, level, format, module, version)
	slog.SetDefault(logger)
	return logger
}

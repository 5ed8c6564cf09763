package internal

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// ServiceName is attached to every log record.
const ServiceName = "vendora"

// NewLogger builds the process logger. Production writes JSON with
// RFC 3339 timestamps; every other environment writes text. An unknown
// level falls back to info and is reported once on the new logger.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	lvl, known := parseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	if env == "prod" {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		}
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(h).With("service", ServiceName, "env", env)
	if !known {
		logger.Warn("unknown log level, using info", "value", level)
	}
	return logger
}

// parseLevel maps LOG_LEVEL to a slog level. Empty means info.
func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

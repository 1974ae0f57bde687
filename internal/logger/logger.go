package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/san-kum/cosmosim/internal/config"
)

// Init installs the default slog logger described by cfg, writing to
// stderr so command output on stdout stays clean.
func Init(cfg config.LogConfig) *slog.Logger {
	return InitWriter(os.Stderr, cfg)
}

func InitWriter(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	l.Debug("logger initialized", "component", "logger", "level", cfg.Level, "json_format", cfg.JSON)
	return l
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

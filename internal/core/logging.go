package core

import (
	"io"
	"log/slog"
	"strings"
)

// ConfigureLogging installs a text slog handler writing to w at the given level.
// Unknown levels fall back to info.
func ConfigureLogging(w io.Writer, level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}

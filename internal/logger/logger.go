// Package logger holds the logger used by the commands.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// L is the global logger. It discards everything until Init is called.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// ParseLevel parses a level name (debug, info, warn, error, or off).
func ParseLevel(s string) (slog.Level, bool, error) {
	switch strings.ToLower(s) {
	case "", "off", "none":
		return 0, false, nil
	case "debug":
		return slog.LevelDebug, true, nil
	case "info":
		return slog.LevelInfo, true, nil
	case "warn", "warning":
		return slog.LevelWarn, true, nil
	case "error":
		return slog.LevelError, true, nil
	default:
		return 0, false, fmt.Errorf("invalid log level %q", s)
	}
}

// Init replaces L with a text logger writing to w at the named level.
func Init(w io.Writer, level string) error {
	lvl, enabled, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if !enabled {
		w = io.Discard
	}
	L = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	return nil
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

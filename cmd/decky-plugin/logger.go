package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
)

// createFileLogger creates a logger writing to the plugin log file, the way
// the loader collects plugin output
func createFileLogger(path, logLevel, format string) *slog.Logger {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		// If we can't create log directory, use discard logger
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
	}

	opts := &slog.HandlerOptions{Level: parseLogLevel(logLevel)}
	if format == "text" {
		return slog.New(slog.NewTextHandler(file, opts))
	}
	return slog.New(slog.NewJSONHandler(file, opts))
}

// createCLILogger creates a logger for CLI commands that writes to stderr
func createCLILogger(logLevel string) *slog.Logger {
	level := parseLogLevel(logLevel)

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: level,
	}))
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

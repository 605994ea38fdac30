// Package logger provides a logger implementation using slog
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/8thgencore/respkv/internal/config"
	"github.com/golang-cz/devslog"
)

// New creates a new logger with configured formatting and logging level
func New(env config.Env, cfg config.LoggingConfig) *slog.Logger {
	log := slog.New(NewHandler(output(cfg.Output), env, cfg.Level))

	// Set the logger as the default logger
	slog.SetDefault(log)

	return log
}

// NewHandler builds the handler used by New: JSON in production, devslog otherwise.
// An empty level keeps the environment's default.
func NewHandler(w io.Writer, env config.Env, level string) slog.Handler {
	if env == config.Prod {
		slogOpts := &slog.HandlerOptions{
			AddSource: true,
			Level:     parseLevel(level, slog.LevelInfo),
		}
		return slog.NewJSONHandler(w, slogOpts)
	}

	slogOpts := &slog.HandlerOptions{
		AddSource: true,
		Level:     parseLevel(level, slog.LevelDebug),
	}
	opts := &devslog.Options{
		HandlerOptions:    slogOpts,
		MaxSlicePrintSize: 10,
		SortKeys:          true,
		NewLineAfterLog:   true,
		StringerFormatter: true,
		TimeFormat:        "[15:04:05.000]",
	}

	return devslog.NewHandler(w, opts)
}

func parseLevel(level string, fallback slog.Level) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return fallback
}

func output(name string) io.Writer {
	if name == "stderr" {
		return os.Stderr
	}

	return os.Stdout
}

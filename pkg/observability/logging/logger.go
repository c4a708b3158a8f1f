// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"io"
	"log/slog"
	"os"
)

// source is the fixed tag attached to every debug event record so log
// consumers can attribute events to the gateway.
const source = "gentext-gw"

// Config for logger
type Config struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" or "text"
	Output io.Writer
}

// Logger wraps slog.Logger
type Logger struct {
	*slog.Logger
}

// New creates a new logger
func New(cfg Config) *Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// DebugEvent emits a structured debug record tagged with the fixed source
// attribute, the caller-supplied event name, and any auxiliary key-value
// pairs. Best-effort: slog tolerates odd argument lists, so this never
// fails regardless of what callers pass.
func (l *Logger) DebugEvent(event string, args ...any) {
	attrs := append([]any{"source", source, "event", event}, args...)
	l.Debug("debug event", attrs...)
}

// Package logger builds the structured operation log.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// ParseLevel maps a config level name to a slog.Level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logger: unknown level %q", name)
	}
}

// New returns a JSON logger appending to file. With an empty file it returns
// Discard. The close func releases the file and is always non-nil.
func New(file, level string) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	if file == "" {
		return Discard(), noop, nil
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, noop, err
	}

	// 0750: user rwx, group rx, others ---
	if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
		return nil, noop, fmt.Errorf("logger: creating directory for %s: %w", file, err)
	}
	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, noop, fmt.Errorf("logger: opening %s: %w", file, err)
	}

	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), f.Close, nil
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tinyland/lab/perf-pulse/config"
)

// parseLevel maps a config level name to a slog level. Unknown names map
// to info; Validate rejects them before this is reached.
func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupLogger builds the process logger. Records go to cfg.File when set,
// otherwise to fallback. verbose forces debug level. The returned func
// closes the log file, if any.
func setupLogger(cfg config.LogConfig, verbose bool, fallback io.Writer) (*slog.Logger, func(), error) {
	out := fallback
	closeFn := func() {}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	level := parseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.Detailed,
	})
	return slog.New(handler).With("version", version), closeFn, nil
}

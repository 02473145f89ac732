package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/jask/uidclone/internal/config"
)

// newLogger points the default slog logger at the log file. The terminal
// belongs to the TUI, so nothing is written to stderr once it starts.
func newLogger(c config.LogConfig) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(c.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(tint.NewHandler(f, &tint.Options{
		Level:      parseLevel(c.Level),
		TimeFormat: time.DateTime,
		NoColor:    true,
	}))
	slog.SetDefault(logger)
	return logger, func() { _ = f.Close() }, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

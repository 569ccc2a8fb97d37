// Package logging turns the log section of the tjb config into the
// process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/config"
)

// Init installs the default logger described by c, writing to w or to
// stderr when w is nil. Debug logging also records the source line.
func Init(c config.LogConfig, w io.Writer) error {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: level <= slog.LevelDebug}

	var h slog.Handler
	switch c.Format {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Format)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// New returns the default logger tagged with component, e.g. "journal" or
// "notion".
func New(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}

// ParseLevel maps debug, info, warn or error onto a slog level. An empty
// string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}

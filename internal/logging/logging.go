// Package logging builds the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/merocrm/mero-crm/internal/config"
)

// New creates a logger from configuration. JSON output is used in
// production or when LOG_FORMAT=json; text otherwise.
func New(app *config.AppConfig, cfg *config.LogConfig) *slog.Logger {
	return NewWithWriter(os.Stdout, app, cfg)
}

// NewWithWriter is New writing to w
func NewWithWriter(w io.Writer, app *config.AppConfig, cfg *config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	format := strings.ToLower(cfg.Format)
	if format == "" && app.IsProduction() {
		format = "json"
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("service", app.Name)
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

package app

import (
	"log/slog"
	"os"
)

// NewLogger returns the slog.Logger used across the rotacarga processes:
// JSON when LOG_FORMAT=json, debug level outside production, and a service
// attribute so the three binaries are distinguishable in shared log streams.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true, Level: slog.LevelInfo}
	if cfg != nil && !cfg.IsProduction() {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("service", "rotacarga"))
}

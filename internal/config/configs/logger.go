package configs

import (
	"log/slog"
	"strings"
)

// Logger configures the engine's structured logging: auction commits,
// frequency store failures and HTTP errors all flow through one slog
// logger built from these settings. Level sets the minimum level emitted
// ("debug", "info", "warn", "error"); Format selects the handler
// encoding, "text" (default) or "json". Unknown values fall back to the
// defaults rather than failing startup.
type Logger struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// SlogLevel maps the configured level name onto a slog.Level, defaulting
// to info for anything unrecognized.
func (c Logger) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SlogFormat normalises the requested handler encoding. Only "json" is
// recognized; anything else means "text".
func (c Logger) SlogFormat() string {
	switch strings.ToLower(c.Format) {
	case "json":
		return "json"
	default:
		return "text"
	}
}

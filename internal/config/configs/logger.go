package configs

import (
	"log/slog"
	"strings"
)

// Logger defines configuration options for the structured logger. Level is
// one of "debug", "info", "warn" and "error"; Format is "text" (default) or
// "json". When File is set output goes to that file, rotated by size.
type Logger struct {
	Level  string `env:"LEVEL"`
	Format string `env:"FORMAT" envDefault:"text"`

	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"28"`
	Compress   bool   `env:"COMPRESS" envDefault:"false"`
}

// SlogLevel converts the textual level into a slog.Level. An empty level
// yields def; unknown levels default to slog.LevelInfo.
func (c Logger) SlogLevel(def slog.Level) slog.Level {
	switch strings.ToLower(c.Level) {
	case "":
		return def
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

// SlogFormat validates and normalises the requested log format. Any value
// other than "json" returns "text".
func (c Logger) SlogFormat() string {
	switch strings.ToLower(c.Format) {
	case "json":
		return "json"
	default:
		return "text"
	}
}

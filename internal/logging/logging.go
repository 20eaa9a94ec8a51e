// Package logging builds the slog logger of both binaries.
package logging

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"mesa-admin/internal/config/configs"
)

// New returns a logger writing to w, or to cfg.File with size-based
// rotation when it is set. def is the level used when cfg.Level is empty.
// The returned closer releases the log file.
func New(cfg configs.Logger, w io.Writer, def slog.Level) (*slog.Logger, io.Closer) {
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		w, closer = lj, lj
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel(def)}
	var handler slog.Handler
	switch cfg.SlogFormat() {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

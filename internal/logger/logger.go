// Package logger builds the structured application logger
package logger

import (
	"io"
	"log/slog"
	"math"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Levels lists the accepted values of the log.level setting.
var Levels = []string{"debug", "info", "warn", "error"}

// Options controls where and how much is logged.
type Options struct {
	Path       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
}

// ParseLevel maps a level name to its slog level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// New returns a JSON logger writing to a size-rotated file, along with the
// closer for that file. An empty path discards all records.
func New(opts Options) (*slog.Logger, io.Closer) {
	if opts.Path == "" {
		return Discard(), io.NopCloser(nil)
	}

	w := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	})

	return slog.New(handler), w
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
}

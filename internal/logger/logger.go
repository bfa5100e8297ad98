// Package logger builds the structured slog logger used across event-announcer.
//
// Console output goes through tint (coloured only when writing to a terminal);
// "json" format uses the standard JSON handler for log shippers.
//
// Example usage:
//
//	log, closer, err := logger.New(cfg.Logger)
//	defer closer.Close()
//	log.Info("announcement posted",
//	    "announcement_id", a.ID,
//	    "channel_id", channelID,
//	)
//
//	log.Error("translation failed", "language", "FR", "error", err)
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"github.com/pfrederiksen/event-announcer/internal/config"
)

// ParseLevel maps a config level name onto a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// New creates a logger from config. The returned closer releases the log
// file when output_path names one; it is a no-op for stdout and stderr.
func New(cfg config.Logger) (*slog.Logger, io.Closer, error) {
	var (
		writer io.Writer
		closer io.Closer = nopCloser{}
	)

	switch strings.ToLower(cfg.OutputPath) {
	case "stdout", "":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		file, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		writer = file
		closer = file
	}

	return NewWithWriter(writer, cfg.Format, ParseLevel(cfg.Level)), closer, nil
}

// NewWithWriter creates a logger writing to w in the given format
func NewWithWriter(w io.Writer, format string, level slog.Level) *slog.Logger {
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !isTerminal(w),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" && a.Value.Kind() == slog.KindAny {
				if err, ok := a.Value.Any().(error); ok {
					return tint.Err(err)
				}
			}
			return a
		},
	}))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Package logging defines the structured-logging interface used across the
// project and its slog and zerolog implementations.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key/value pairs, e.g.:
//
//	log.Info(ctx, "entry created", "id", id, "user_id", userID)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key/value pairs.
	With(args ...any) Logger
}

// Output formats accepted by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatText    = "text"
)

// New builds a Logger writing to w. "json" and "console" use zerolog, "text"
// uses log/slog's text handler. Level is one of debug, info, warn, error.
func New(format, level string, w io.Writer) (Logger, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		zl, err := zerologLevel(level)
		if err != nil {
			return nil, err
		}
		return NewZerologLogger(zerolog.New(w).Level(zl).With().Timestamp().Logger()), nil
	case FormatConsole:
		zl, err := zerologLevel(level)
		if err != nil {
			return nil, err
		}
		cw := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
		return NewZerologLogger(zerolog.New(cw).Level(zl).With().Timestamp().Logger()), nil
	case FormatText:
		var sl slog.Level
		if err := sl.UnmarshalText([]byte(orDefault(level))); err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: sl}))), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func zerologLevel(level string) (zerolog.Level, error) {
	l, err := zerolog.ParseLevel(strings.ToLower(orDefault(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", level, err)
	}
	return l, nil
}

func orDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}

// Package logs builds the application logger.
//
// Records fan out to a text handler on the terminal and a JSON handler on
// the log file. The terminal never receives anything below warn so that
// informational records stay out of the user's way.
package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

// Options selects the sinks of a logger. A nil writer disables its sink.
type Options struct {
	Terminal io.Writer
	File     io.Writer
	Level    slog.Leveler
}

// New returns a logger fanning out to the configured sinks.
func New(opts Options) *slog.Logger {
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	var handlers []slog.Handler
	if opts.Terminal != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.Terminal, &slog.HandlerOptions{
			Level: minLevel{floor: slog.LevelWarn, level: level},
		}))
	}
	if opts.File != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.File, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return slog.New(&Handler{Handler: slogmulti.Fanout(handlers...)})
}

// OpenFile opens the log file for appending, creating its directory.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

type minLevel struct {
	floor slog.Level
	level slog.Leveler
}

func (m minLevel) Level() slog.Level {
	return max(m.floor, m.level.Level())
}

type testKey struct{}

// WithTest tags records logged with ctx with a test identifier.
func WithTest(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, testKey{}, id)
}

// Handler adds the test identifier carried by the context to each record.
type Handler struct {
	slog.Handler
}

// Handle implements slog.Handler.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if v, ok := ctx.Value(testKey{}).(string); ok {
		record.Add("test", v)
	}
	return h.Handler.Handle(ctx, record)
}

// WithAttrs implements slog.Handler and keeps the test tagging.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler and keeps the test tagging.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{Handler: h.Handler.WithGroup(name)}
}

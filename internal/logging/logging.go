// Package logging builds the process logger that is passed into every component.
//
// A Logger fans records out to a console handler and, when a directory is
// configured, to an info log and an error log file. The caller owns the
// returned Logger and must Close it to release the files.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	infoFileName  = "info.log"
	errorFileName = "error.log"
	dirMode       = 0o755
	fileMode      = 0o644
)

// Options configures New.
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // console or json
	Dir    string    // optional directory for info.log and error.log
	Output io.Writer // console writer, defaults to os.Stderr
}

// Logger is a *slog.Logger bound to the files it writes to.
type Logger struct {
	*slog.Logger
	files []*os.File
}

// New constructs a Logger from opts.
func New(opts Options) (*Logger, error) {
	level, err := ParseLogLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	console, err := newHandler(out, opts.Format, level)
	if err != nil {
		return nil, err
	}
	handlers := []slog.Handler{console}

	var files []*os.File
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, dirMode); err != nil {
			return nil, fmt.Errorf("create log dir %s: %w", opts.Dir, err)
		}
		for _, f := range []struct {
			name  string
			level slog.Level
		}{
			{infoFileName, slog.LevelInfo},
			{errorFileName, slog.LevelError},
		} {
			fh, err := os.OpenFile(filepath.Join(opts.Dir, f.name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, fileMode)
			if err != nil {
				closeAll(files)
				return nil, fmt.Errorf("open log file %s: %w", f.name, err)
			}
			files = append(files, fh)
			handlers = append(handlers, slog.NewTextHandler(fh, &slog.HandlerOptions{Level: f.level}))
		}
	}

	return &Logger{
		Logger: slog.New(&fanoutHandler{handlers: handlers}),
		files:  files,
	}, nil
}

// Discard returns a Logger that drops every record. Used by tests and
// components constructed without a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Close releases the log files.
func (l *Logger) Close() error {
	err := closeAll(l.files)
	l.files = nil
	return err
}

func closeAll(files []*os.File) error {
	var errs []error
	for _, f := range files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newHandler(w io.Writer, format string, level slog.Level) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
}

// ParseLogLevel converts a string log level to slog.Level.
// An empty string means info.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// fanoutHandler forwards each record to every handler that accepts its level.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, hh := range h.handlers {
		if !hh.Enabled(ctx, r.Level) {
			continue
		}
		if err := hh.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		next[i] = hh.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		next[i] = hh.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}

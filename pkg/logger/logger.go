package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where log records go besides stdout.
type Options struct {
	// File enables a rotating JSON log file when non-empty.
	File string

	MaxSizeMB  int
	MaxBackups int
}

func (o Options) withDefaults() Options {
	out := o
	if out.MaxSizeMB <= 0 {
		out.MaxSizeMB = 100
	}
	if out.MaxBackups <= 0 {
		out.MaxBackups = 1
	}
	return out
}

// New returns a production-friendly structured logger.
// The returned closer releases the log file, if any; it is always non-nil.
func New(appEnv string, opts Options) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	if appEnv == "local" || appEnv == "dev" {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		opts = opts.withDefaults()
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		w = io.MultiWriter(os.Stdout, lj)
		closer = lj
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h), closer
}

// Discard returns a logger that drops everything. Useful as a default in libraries.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type ctxKey struct{}

// With stores a logger in context.
func With(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From gets a logger from context, falling back to slog.Default().
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}

// Package logging wraps zap with config-driven outputs and context-aware
// correlation fields for draftd.
package logging

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a zap wrapper whose methods take a context and attach the
// run, request, and trace correlation fields found in it.
type Logger struct {
	zap *zap.Logger
	cfg *Config
}

// NewLogger builds a logger from cfg. provider may be nil, which
// disables the OTEL output even when configured.
func NewLogger(cfg *Config, provider log.LoggerProvider) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	core, err := buildCore(cfg, provider)
	if err != nil {
		return nil, err
	}

	var opts []zap.Option
	if cfg.Caller.Enabled {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(cfg.Caller.Skip))
	}
	if cfg.Stacktrace.Level != 0 {
		opts = append(opts, zap.AddStacktrace(cfg.Stacktrace.Level))
	}

	zl := zap.New(core, opts...)
	for k, v := range cfg.Fields {
		zl = zl.With(zap.String(k, v))
	}
	return &Logger{zap: zl, cfg: cfg}, nil
}

// NewNop returns a logger that discards everything. Constructors that
// take an optional logger use it as the default.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop(), cfg: NewDefaultConfig()}
}

// log merges the context's correlation fields into the entry. The level
// check runs first so disabled levels skip the field extraction.
func (l *Logger) log(ctx context.Context, lvl zapcore.Level, msg string, fields []zap.Field) {
	if !l.zap.Core().Enabled(lvl) {
		return
	}
	l.zap.Log(lvl, msg, append(ContextFields(ctx), fields...)...)
}

func (l *Logger) Trace(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, TraceLevel, msg, fields)
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.DebugLevel, msg, fields)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.InfoLevel, msg, fields)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.WarnLevel, msg, fields)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.ErrorLevel, msg, fields)
}

func (l *Logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Fatal(msg, append(ContextFields(ctx), fields...)...)
}

// With returns a child logger carrying fields on every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.zap.With(fields...), cfg: l.cfg}
}

// Named returns a child logger with name appended to the logger path.
func (l *Logger) Named(name string) *Logger {
	return &Logger{zap: l.zap.Named(name), cfg: l.cfg}
}

// Enabled reports whether entries at level would be written.
func (l *Logger) Enabled(level zapcore.Level) bool {
	return l.zap.Core().Enabled(level)
}

// Sync flushes buffered entries. Sync on a stdout-backed logger returns
// EINVAL or ENOTTY on Linux; those are swallowed.
func (l *Logger) Sync() error {
	err := l.zap.Sync()
	var errno syscall.Errno
	if errors.As(err, &errno) && (errno == syscall.EINVAL || errno == syscall.ENOTTY) {
		return nil
	}
	return err
}

// Underlying exposes the wrapped *zap.Logger for libraries that want one.
func (l *Logger) Underlying() *zap.Logger {
	return l.zap
}

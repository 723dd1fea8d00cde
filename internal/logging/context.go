package logging

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	runIDKey ctxKey = iota
	requestIDKey
	loggerKey
)

// ContextFields collects the correlation fields stored in ctx: the
// active trace, the generation run, and the HTTP request.
func ContextFields(ctx context.Context) []zap.Field {
	var fields []zap.Field

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
		if sc.IsSampled() {
			fields = append(fields, zap.Bool("trace_sampled", true))
		}
	}
	if id := RunIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("run.id", id))
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("request.id", id))
	}
	return fields
}

const maxIDLen = 128

// validateID enforces the character set shared by log correlation
// fields and NATS subject tokens: alphanumeric, hyphen, or underscore,
// at most 128 bytes.
func validateID(id, what string) error {
	if id == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if len(id) > maxIDLen {
		return fmt.Errorf("%s exceeds max length %d", what, maxIDLen)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return fmt.Errorf("%s contains invalid character %q (alphanumeric, hyphen, underscore only)", what, r)
		}
	}
	return nil
}

// ValidateRunID checks a caller-supplied run ID before it enters log
// correlation or NATS subjects.
func ValidateRunID(id string) error {
	return validateID(id, "runID")
}

// ValidateRequestID checks an externally supplied request ID before it
// enters log correlation.
func ValidateRequestID(id string) error {
	return validateID(id, "requestID")
}

// WithRunID stores the generation run ID in ctx. Panics on an invalid
// ID; callers accepting external IDs validate with ValidateRunID first.
func WithRunID(ctx context.Context, runID string) context.Context {
	if err := validateID(runID, "runID"); err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the stored run ID, or "".
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithRequestID stores the HTTP request ID in ctx. Panics on an
// invalid ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if err := validateID(requestID, "requestID"); err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the stored request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the stored logger, or a nop logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey).(*Logger); ok {
		return l
	}
	return NewNop()
}

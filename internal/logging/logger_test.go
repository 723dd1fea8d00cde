package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_DefaultConfig(t *testing.T) {
	logger, err := NewLogger(NewDefaultConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Enabled(zapcore.DebugLevel))
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"
	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
}

func TestNewLogger_NoOutputs(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.Stdout = false
	cfg.Output.OTEL = false
	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
}

func TestLogger_ContextFields(t *testing.T) {
	tl := NewTestLogger()

	ctx := WithRunID(context.Background(), "run-123")
	ctx = WithRequestID(ctx, "req-456")
	tl.Info(ctx, "draft started")

	entries := tl.FilterMessage("draft started").All()
	require.Len(t, entries, 1)

	fields := map[string]string{}
	for _, f := range entries[0].Context {
		if f.Type == zapcore.StringType {
			fields[f.Key] = f.String
		}
	}
	assert.Equal(t, "run-123", fields["run.id"])
	assert.Equal(t, "req-456", fields["request.id"])
}

func TestWithRunID_Validation(t *testing.T) {
	assert.Panics(t, func() { WithRunID(context.Background(), "") })
	assert.Panics(t, func() { WithRunID(context.Background(), "bad id with spaces") })
	assert.NotPanics(t, func() { WithRunID(context.Background(), "run_1-a") })
}

func TestValidateRequestID(t *testing.T) {
	assert.Error(t, ValidateRequestID(""))
	assert.Error(t, ValidateRequestID("bad id!"))
	assert.NoError(t, ValidateRequestID("req-1_a"))
}

func TestFromContext_Fallback(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	// Nop logger must not panic
	logger.Info(context.Background(), "ignored")
}

func TestFromContext_RoundTrip(t *testing.T) {
	tl := NewTestLogger()
	ctx := WithLogger(context.Background(), tl.Logger)
	got := FromContext(ctx)
	got.Warn(ctx, "stored logger used")
	tl.AssertLogged(t, zapcore.WarnLevel, "stored logger used")
}

func TestLogger_Named_With(t *testing.T) {
	tl := NewTestLogger()
	child := tl.Named("scorer").With(zap.String("component", "rank"))
	child.Info(context.Background(), "ranked")

	entries := tl.FilterMessage("ranked").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "scorer", entries[0].LoggerName)
}

func TestLevelFromString(t *testing.T) {
	lvl, err := LevelFromString("trace")
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, lvl)

	lvl, err = LevelFromString("warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lvl)

	_, err = LevelFromString("shout")
	require.Error(t, err)
}

func TestTrace_FilteredWhenDisabled(t *testing.T) {
	logger, err := NewLogger(NewDefaultConfig(), nil)
	require.NoError(t, err)
	// Info-level core drops trace without panicking.
	logger.Trace(context.Background(), "tick")
}

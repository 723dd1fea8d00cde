package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/draftd/internal/config"
)

// Config holds the logger settings loaded from the logging section of
// the root config.
type Config struct {
	Level      zapcore.Level     `koanf:"level"`
	Format     string            `koanf:"format"`
	Output     OutputConfig      `koanf:"output"`
	Sampling   SamplingConfig    `koanf:"sampling"`
	Caller     CallerConfig      `koanf:"caller"`
	Stacktrace StacktraceConfig  `koanf:"stacktrace"`
	Fields     map[string]string `koanf:"fields"`
}

// OutputConfig selects the log sinks.
type OutputConfig struct {
	Stdout bool `koanf:"stdout"`
	OTEL   bool `koanf:"otel"`
}

// SamplingConfig bounds log volume below the Error level.
type SamplingConfig struct {
	Enabled bool                                  `koanf:"enabled"`
	Tick    config.Duration                       `koanf:"tick"`
	Levels  map[zapcore.Level]LevelSamplingConfig `koanf:"levels"`
}

// LevelSamplingConfig is the keep rate for one level per sampling tick.
type LevelSamplingConfig struct {
	Initial    int `koanf:"initial"`
	Thereafter int `koanf:"thereafter"`
}

// CallerConfig controls caller annotation on entries.
type CallerConfig struct {
	Enabled bool `koanf:"enabled"`
	Skip    int  `koanf:"skip"`
}

// StacktraceConfig sets the level at and above which entries carry a
// stacktrace.
type StacktraceConfig struct {
	Level zapcore.Level `koanf:"level"`
}

// NewDefaultConfig returns the production defaults: sampled JSON to
// stdout at Info, with the service name stamped on every entry.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Level:  zapcore.InfoLevel,
		Format: "json",
		Fields: map[string]string{"service": "draftd"},
	}
	cfg.Output.Stdout = true

	cfg.Sampling.Enabled = true
	cfg.Sampling.Tick = config.Duration(time.Second)
	// Progress ticks log at Trace and are sampled hardest; Error and
	// above never sample.
	cfg.Sampling.Levels = map[zapcore.Level]LevelSamplingConfig{
		TraceLevel:         {Initial: 1, Thereafter: 0},
		zapcore.DebugLevel: {Initial: 10, Thereafter: 0},
		zapcore.InfoLevel:  {Initial: 100, Thereafter: 10},
		zapcore.WarnLevel:  {Initial: 100, Thereafter: 100},
	}

	// Skip covers the two wrapper frames (public method plus log).
	cfg.Caller.Enabled = true
	cfg.Caller.Skip = 2

	cfg.Stacktrace.Level = zapcore.ErrorLevel
	return cfg
}

// Validate rejects settings the core builder cannot honor.
func (c *Config) Validate() error {
	switch c.Format {
	case "json", "console":
	default:
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	if !c.Output.Stdout && !c.Output.OTEL {
		return fmt.Errorf("at least one output must be enabled (stdout or otel)")
	}
	if c.Sampling.Enabled && c.Sampling.Tick.Duration() <= 0 {
		return fmt.Errorf("sampling tick must be > 0 when sampling enabled")
	}
	if c.Caller.Enabled && c.Caller.Skip < 0 {
		return fmt.Errorf("caller skip must be >= 0, got %d", c.Caller.Skip)
	}
	for k, v := range c.Fields {
		if k == "" {
			return fmt.Errorf("field key cannot be empty")
		}
		if v == "" {
			return fmt.Errorf("field %q has empty value", k)
		}
	}
	return nil
}

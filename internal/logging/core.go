package logging

import (
	"fmt"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// buildCore assembles the zap core from the configured outputs and wraps
// it with sampling when enabled.
func buildCore(cfg *Config, provider log.LoggerProvider) (zapcore.Core, error) {
	var outputs []zapcore.Core

	if cfg.Output.Stdout {
		outputs = append(outputs, zapcore.NewCore(
			newEncoder(cfg.Format),
			zapcore.Lock(os.Stdout),
			cfg.Level,
		))
	}
	if cfg.Output.OTEL && provider != nil {
		outputs = append(outputs, otelzap.NewCore("draftd",
			otelzap.WithLoggerProvider(provider),
		))
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("no log output available: enable stdout or otel")
	}

	core := outputs[0]
	if len(outputs) > 1 {
		core = zapcore.NewTee(outputs...)
	}
	if !cfg.Sampling.Enabled {
		return core, nil
	}
	return sampled(core, cfg.Sampling), nil
}

func newEncoder(format string) zapcore.Encoder {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "console" {
		return zapcore.NewConsoleEncoder(enc)
	}
	return zapcore.NewJSONEncoder(enc)
}

// sampled rate-limits entries below Error. Progress ticks and
// per-candidate scoring detail drive the log volume and land in the
// sampled band; Error and above always pass.
func sampled(core zapcore.Core, cfg SamplingConfig) zapcore.Core {
	rate := cfg.Levels[zapcore.InfoLevel]
	noisy := zapcore.NewSamplerWithOptions(
		bandCore{Core: core, lo: TraceLevel, hi: zapcore.WarnLevel},
		cfg.Tick.Duration(),
		rate.Initial,
		rate.Thereafter,
	)
	critical := bandCore{Core: core, lo: zapcore.ErrorLevel, hi: zapcore.FatalLevel}
	return zapcore.NewTee(critical, noisy)
}

// bandCore restricts a core to the inclusive level band [lo, hi]. Both
// bounds are always set explicitly; any zapcore level can be a bound.
type bandCore struct {
	zapcore.Core
	lo zapcore.Level
	hi zapcore.Level
}

func (b bandCore) inBand(lvl zapcore.Level) bool {
	return lvl >= b.lo && lvl <= b.hi
}

func (b bandCore) Enabled(lvl zapcore.Level) bool {
	return b.inBand(lvl) && b.Core.Enabled(lvl)
}

func (b bandCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !b.inBand(e.Level) {
		return ce
	}
	return b.Core.Check(e, ce)
}

func (b bandCore) With(fields []zapcore.Field) zapcore.Core {
	return bandCore{Core: b.Core.With(fields), lo: b.lo, hi: b.hi}
}

// Package telemetry wires OpenTelemetry tracing and metrics for draftd.
// Export failures never take the pipeline down; providers that cannot be
// built are skipped and the instance reports itself degraded.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Telemetry owns the tracer and meter providers and their shutdown.
type Telemetry struct {
	cfg *Config

	traces  *trace.TracerProvider
	meters  *sdkmetric.MeterProvider
	logProv log.LoggerProvider

	healthy  atomic.Bool
	degraded atomic.Bool
}

// New builds providers per cfg and installs them as the process
// globals. Disabled config yields a working noop instance; provider
// construction errors degrade instead of failing startup.
func New(ctx context.Context, cfg *Config) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	t := &Telemetry{cfg: cfg}
	t.healthy.Store(true)
	if !cfg.Enabled {
		return t, nil
	}

	res, err := newResource(cfg)
	if err != nil {
		t.degraded.Store(true)
		return t, nil
	}

	if tp, err := newTracerProvider(ctx, cfg, res); err != nil {
		t.degraded.Store(true)
	} else {
		t.traces = tp
		otel.SetTracerProvider(tp)
	}

	if mp, err := newMeterProvider(ctx, cfg, res); err != nil {
		t.degraded.Store(true)
	} else if mp != nil {
		t.meters = mp
		otel.SetMeterProvider(mp)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return t, nil
}

// Tracer returns a tracer for name, falling back to the global (noop
// when nothing registered) if this instance has no provider.
func (t *Telemetry) Tracer(name string, opts ...oteltrace.TracerOption) oteltrace.Tracer {
	if t == nil || t.traces == nil {
		return otel.GetTracerProvider().Tracer(name, opts...)
	}
	return t.traces.Tracer(name, opts...)
}

// Meter returns a meter for name, with the same fallback as Tracer.
func (t *Telemetry) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if t == nil || t.meters == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return t.meters.Meter(name, opts...)
}

// LoggerProvider returns the provider the otelzap bridge should use.
// Nil when log export is not configured.
func (t *Telemetry) LoggerProvider() log.LoggerProvider {
	if t == nil {
		return nil
	}
	return t.logProv
}

// SetLoggerProvider injects the provider for the otelzap bridge.
func (t *Telemetry) SetLoggerProvider(lp log.LoggerProvider) {
	if t != nil {
		t.logProv = lp
	}
}

// Shutdown flushes and stops the providers. When ctx carries no
// deadline, the configured grace period applies.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	if _, ok := ctx.Deadline(); !ok && t.cfg != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.ShutdownGrace.Duration())
		defer cancel()
	}

	var errs []error
	if t.traces != nil {
		if err := t.traces.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("trace provider shutdown: %w", err))
		}
	}
	if t.meters != nil {
		if err := t.meters.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	t.healthy.Store(false)
	return errors.Join(errs...)
}

// IsEnabled reports whether telemetry is configured on and still healthy.
func (t *Telemetry) IsEnabled() bool {
	return t != nil && t.cfg != nil && t.cfg.Enabled && t.healthy.Load()
}

// Degraded reports whether any provider failed to initialize.
func (t *Telemetry) Degraded() bool {
	return t == nil || t.degraded.Load()
}

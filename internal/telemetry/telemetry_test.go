package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log/noop"
)

func TestNew_Disabled(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, tel)

	assert.False(t, tel.IsEnabled())
	assert.False(t, tel.Degraded())
	assert.NotNil(t, tel.Tracer("test"))
	assert.NotNil(t, tel.Meter("test"))
	assert.Nil(t, tel.LoggerProvider())
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetLoggerProvider(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig())
	require.NoError(t, err)

	provider := noop.NewLoggerProvider()
	tel.SetLoggerProvider(provider)
	assert.Equal(t, provider, tel.LoggerProvider())

	// Nil receiver stays safe.
	var nilTel *Telemetry
	nilTel.SetLoggerProvider(provider)
	assert.Nil(t, nilTel.LoggerProvider())
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = true
	cfg.SampleRate = 2.0
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"disabled skips validation", func(c *Config) { c.Endpoint = "" }, true},
		{"enabled needs endpoint", func(c *Config) { c.Enabled = true; c.Endpoint = "" }, false},
		{"insecure remote rejected", func(c *Config) { c.Enabled = true; c.Endpoint = "collector.example.com:4317" }, false},
		{"insecure local ok", func(c *Config) { c.Enabled = true; c.Endpoint = "localhost:4317" }, true},
		{"insecure bracketed ipv6 local ok", func(c *Config) { c.Enabled = true; c.Endpoint = "[::1]:4317" }, true},
		{"bad protocol", func(c *Config) { c.Enabled = true; c.Protocol = "thrift" }, false},
		{"secure remote ok", func(c *Config) {
			c.Enabled = true
			c.Insecure = false
			c.Endpoint = "collector.example.com:4317"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNilTelemetry_Safe(t *testing.T) {
	var tel *Telemetry
	assert.NotNil(t, tel.Tracer("x"))
	assert.NotNil(t, tel.Meter("x"))
	assert.Nil(t, tel.LoggerProvider())
	assert.False(t, tel.IsEnabled())
	assert.NoError(t, tel.Shutdown(context.Background()))
}

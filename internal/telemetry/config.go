// Package telemetry provides OpenTelemetry instrumentation for draftd.
package telemetry

import (
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/draftd/internal/config"
)

// Supported OTLP transport protocols.
const (
	protocolGRPC = "grpc"
	protocolHTTP = "http/protobuf"
)

// Config holds telemetry configuration.
type Config struct {
	Enabled        bool            `koanf:"enabled"`
	Endpoint       string          `koanf:"endpoint"`
	Protocol       string          `koanf:"protocol"` // "grpc" (default) or "http/protobuf"
	ServiceName    string          `koanf:"service_name"`
	ServiceVersion string          `koanf:"service_version"`
	Insecure       bool            `koanf:"insecure"`
	SampleRate     float64         `koanf:"sample_rate"`
	ExportInterval config.Duration `koanf:"export_interval"`
	ShutdownGrace  config.Duration `koanf:"shutdown_grace"`
}

// NewDefaultConfig returns telemetry defaults. Disabled by default for
// installs without an OTEL collector.
func NewDefaultConfig() *Config {
	return &Config{
		Enabled:        false,
		Endpoint:       "localhost:4317",
		Protocol:       protocolGRPC,
		ServiceName:    "draftd",
		ServiceVersion: "0.1.0",
		Insecure:       true, // local dev; set false for production TLS
		SampleRate:     1.0,
		ExportInterval: config.Duration(15 * time.Second),
		ShutdownGrace:  config.Duration(5 * time.Second),
	}
}

// Validate checks configuration for errors.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when telemetry is enabled")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required when telemetry is enabled")
	}
	if c.Protocol != "" && c.Protocol != protocolGRPC && c.Protocol != protocolHTTP {
		return fmt.Errorf("protocol must be 'grpc' or 'http/protobuf', got %q", c.Protocol)
	}
	if c.Insecure && !c.isLocalEndpoint() {
		return fmt.Errorf("insecure connections to remote endpoints are not allowed; set insecure=false for TLS or use a local endpoint")
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0 and 1, got %f", c.SampleRate)
	}
	if c.ExportInterval.Duration() <= 0 {
		return fmt.Errorf("export_interval must be positive")
	}
	if c.ShutdownGrace.Duration() <= 0 {
		return fmt.Errorf("shutdown_grace must be positive")
	}

	return nil
}

// protocol returns the configured transport, defaulting to gRPC.
func (c *Config) protocol() string {
	if c.Protocol == "" {
		return protocolGRPC
	}
	return c.Protocol
}

// isLocalEndpoint checks if the endpoint is a local address.
func (c *Config) isLocalEndpoint() bool {
	host := c.Endpoint

	if strings.HasPrefix(host, "[") {
		// Bracketed IPv6: [::1]:4317
		if idx := strings.Index(host, "]:"); idx != -1 {
			host = host[1:idx]
		} else if strings.HasSuffix(host, "]") {
			host = host[1 : len(host)-1]
		}
	} else if strings.Count(host, ":") == 1 {
		if idx := strings.LastIndex(host, ":"); idx != -1 {
			host = host[:idx]
		}
	}

	return host == "localhost" ||
		host == "127.0.0.1" ||
		host == "::1" ||
		strings.HasPrefix(host, "127.") ||
		strings.HasPrefix(c.Endpoint, "::1")
}

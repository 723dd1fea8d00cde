// Package config provides configuration loading for draftd.
package config

import (
	"fmt"
	"time"
)

// Config is the root draftd configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Logging       LoggingConfig       `koanf:"logging"`
	Observability ObservabilityConfig `koanf:"observability"`
	NATS          NATSConfig          `koanf:"nats"`
	Pipeline      PipelineConfig      `koanf:"pipeline"`
	Enrichment    EnrichmentConfig    `koanf:"enrichment"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logger settings. Translated into the logging
// package's Config by the caller to avoid an import cycle (the logging
// package depends on this one for Duration).
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Stdout bool   `koanf:"stdout"`
	OTEL   bool   `koanf:"otel"`
}

// ObservabilityConfig holds OpenTelemetry export settings.
type ObservabilityConfig struct {
	Enabled        bool     `koanf:"enabled"`
	ServiceName    string   `koanf:"service_name"`
	ServiceVersion string   `koanf:"service_version"`
	Endpoint       string   `koanf:"endpoint"`
	Protocol       string   `koanf:"protocol"`
	Insecure       bool     `koanf:"insecure"`
	SampleRate     float64  `koanf:"sample_rate"`
	ExportInterval Duration `koanf:"export_interval"`
}

// NATSConfig holds the progress event broker settings.
type NATSConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
}

// PipelineConfig holds generation pipeline defaults.
type PipelineConfig struct {
	OverallBudget Duration `koanf:"overall_budget"`
	TickInterval  Duration `koanf:"tick_interval"`
	StrictQuality bool     `koanf:"strict_quality"`
	CatalogPath   string   `koanf:"catalog_path"`
}

// EnrichmentConfig holds the best-effort asset enrichment collaborator
// settings. Enrichment failures never fail a customization.
type EnrichmentConfig struct {
	Enabled bool     `koanf:"enabled"`
	BaseURL string   `koanf:"base_url"`
	Timeout Duration `koanf:"timeout"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8610
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if !cfg.Logging.Stdout && !cfg.Logging.OTEL {
		cfg.Logging.Stdout = true
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "draftd"
	}
	if cfg.Observability.ServiceVersion == "" {
		cfg.Observability.ServiceVersion = "0.1.0"
	}
	if cfg.Observability.Endpoint == "" {
		cfg.Observability.Endpoint = "localhost:4317"
	}
	if cfg.Observability.SampleRate == 0 {
		cfg.Observability.SampleRate = 1.0
	}
	if cfg.Observability.ExportInterval == 0 {
		cfg.Observability.ExportInterval = Duration(15 * time.Second)
	}

	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://localhost:4222"
	}

	if cfg.Pipeline.OverallBudget == 0 {
		cfg.Pipeline.OverallBudget = Duration(30 * time.Minute)
	}
	if cfg.Pipeline.TickInterval == 0 {
		cfg.Pipeline.TickInterval = Duration(2 * time.Second)
	}

	if cfg.Enrichment.Timeout == 0 {
		cfg.Enrichment.Timeout = Duration(3 * time.Second)
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	if c.Observability.Enabled {
		if c.Observability.Endpoint == "" {
			return fmt.Errorf("observability.endpoint is required when observability is enabled")
		}
		if c.Observability.SampleRate < 0 || c.Observability.SampleRate > 1 {
			return fmt.Errorf("observability.sample_rate must be between 0 and 1, got %f", c.Observability.SampleRate)
		}
	}

	if c.NATS.Enabled && c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required when nats is enabled")
	}

	if c.Pipeline.OverallBudget.Duration() <= 0 {
		return fmt.Errorf("pipeline.overall_budget must be positive")
	}
	if c.Pipeline.TickInterval.Duration() <= 0 {
		return fmt.Errorf("pipeline.tick_interval must be positive")
	}

	if c.Enrichment.Enabled {
		if c.Enrichment.BaseURL == "" {
			return fmt.Errorf("enrichment.base_url is required when enrichment is enabled")
		}
		if c.Enrichment.Timeout.Duration() <= 0 {
			return fmt.Errorf("enrichment.timeout must be positive")
		}
	}

	return nil
}

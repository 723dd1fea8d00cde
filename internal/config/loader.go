package config

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1024 * 1024 // 1MB

// Load loads configuration from a YAML file, then overrides with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SERVER_PORT, PIPELINE_OVERALL_BUDGET, ...)
//  2. YAML config file
//  3. Hardcoded defaults
//
// If configPath is empty, no file is read and only environment variables
// and defaults apply.
//
// Environment variables use an underscore separator and are uppercased.
// The transformer splits on the first underscore only (section.field_name):
//
//	SERVER_PORT             -> server.port
//	PIPELINE_OVERALL_BUDGET -> pipeline.overall_budget
//	ENRICHMENT_BASE_URL     -> enrichment.base_url
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		// Open once and validate via the file descriptor to avoid a
		// TOCTOU race between stat and read.
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		if err := checkConfigFile(info); err != nil {
			return nil, fmt.Errorf("config file rejected: %w", err)
		}

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", transformEnvKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// transformEnvKey maps SECTION_FIELD_NAME to section.field_name. The split
// happens on the first underscore only, so compound field names keep their
// underscores.
func transformEnvKey(s string) string {
	lower := strings.ToLower(s)
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// checkConfigFile bounds permissions and size using FileInfo from the
// already-opened descriptor.
func checkConfigFile(info os.FileInfo) error {
	// Permission check skipped on Windows (different permission model).
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm&0o077 != 0 && perm != 0o644 && perm != 0o444 {
			return fmt.Errorf("unexpected config file permissions: %v", perm)
		}
	}

	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file is %d bytes, max is %d", info.Size(), maxConfigFileSize)
	}

	return nil
}

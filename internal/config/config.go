// Package config loads server settings from an optional YAML file, with
// flags and environment variables layered on top by the CLI.
//
// The file never holds secrets: credentials come exclusively from the
// environment or from the per-call __credentials__ argument.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the persistent server configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Port used by the SSE and HTTP transports.
	Port int `yaml:"port"`
	// VendorTimeoutSeconds bounds each outbound vendor call.
	VendorTimeoutSeconds int `yaml:"vendor_timeout_seconds"`
	// BaseURLs overrides vendor API roots, keyed by vendor name.
	// Used for proxies and tests, not normal operation.
	BaseURLs map[string]string `yaml:"base_urls"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:             "info",
		Port:                 8080,
		VendorTimeoutSeconds: 30,
		BaseURLs:             map[string]string{},
	}
}

// VendorTimeout returns the per-call deadline as a duration.
func (c Config) VendorTimeout() time.Duration {
	return time.Duration(c.VendorTimeoutSeconds) * time.Second
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults untouched; a missing file is an error, since the operator
// asked for it explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if cfg.BaseURLs == nil {
		cfg.BaseURLs = map[string]string{}
	}
	return cfg, nil
}

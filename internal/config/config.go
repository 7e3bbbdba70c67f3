// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

// Package config loads server configuration from an optional YAML file
// layered under command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds the runtime configuration for the notisblokk server.
type Config struct {
	// ListenAddr is the HTTP API listen address.
	ListenAddr string `koanf:"listen_addr"`
	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log_format"`
	// DatabaseURL is the PostgreSQL connection string. Falls back to the
	// DATABASE_URL environment variable when unset.
	DatabaseURL string `koanf:"database_url"`
	// MetricsAddr is the metrics/health HTTP address. Empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`
	// HashConcurrency caps concurrent password hashing operations.
	// Zero means one per CPU.
	HashConcurrency int `koanf:"hash_concurrency"`
	// SweepInterval is how often expired sessions are purged.
	SweepInterval time.Duration `koanf:"sweep_interval"`
	// AutoMigrate applies pending schema migrations at startup.
	AutoMigrate bool `koanf:"auto_migrate"`
}

// Default values applied before any file or flag overrides.
const (
	defaultListenAddr    = ":8080"
	defaultLogFormat     = "json"
	defaultMetricsAddr   = "127.0.0.1:9100"
	defaultSweepInterval = 10 * time.Minute
)

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		ListenAddr:    defaultListenAddr,
		LogFormat:     defaultLogFormat,
		MetricsAddr:   defaultMetricsAddr,
		SweepInterval: defaultSweepInterval,
		AutoMigrate:   true,
	}
}

// Validate checks that the configuration is usable.
func (cfg *Config) Validate() error {
	if cfg.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return fmt.Errorf("log_format must be 'json' or 'text', got %q", cfg.LogFormat)
	}
	if cfg.HashConcurrency < 0 {
		return fmt.Errorf("hash_concurrency must not be negative, got %d", cfg.HashConcurrency)
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive, got %s", cfg.SweepInterval)
	}
	return nil
}

// Load builds a Config from defaults, then an optional YAML file at path,
// then any flags the user set. Flag names map to config keys with dashes
// replaced by underscores (e.g. --listen-addr sets listen_addr).
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithValue(flags, ".", k,
			func(key, value string) (string, any) {
				return strings.ReplaceAll(key, "-", "_"), value
			})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

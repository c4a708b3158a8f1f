// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Storage  StorageConfig  `yaml:"storage"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Upstream UpstreamConfig `yaml:"upstream"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`

	// PublicBaseURL is the externally visible base URL of the gateway,
	// used to build absolute resource URLs. Derived when empty.
	PublicBaseURL string `yaml:"public_base_url"`
}

// LoggingConfig contains logger configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// StorageConfig selects the extraction record store backend
type StorageConfig struct {
	Type   string            `yaml:"type"`   // "memory" (default), "postgres" or "sqlite"
	Params map[string]string `yaml:"params"` // backend-specific, e.g. "dsn", "path"
}

// ArchiveConfig selects the raw payload archive backend
type ArchiveConfig struct {
	Type   string            `yaml:"type"`   // "memory" (default), "filesystem" or "s3"
	Params map[string]string `yaml:"params"` // backend-specific, e.g. "base_dir", "bucket"
}

// UpstreamConfig contains the optional OpenAI-compatible upstream used for
// fetch-and-extract requests
type UpstreamConfig struct {
	Endpoint string        `yaml:"endpoint"` // e.g. "http://localhost:8000/v1"
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"` // default model for fetch requests
	Timeout  time.Duration `yaml:"timeout"`
}

// defaultBaseURL is the fixed local fallback when no base URL can be
// configured or derived.
const defaultBaseURL = "http://localhost:8080"

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 60 * time.Second,
		},
	}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg
}

// applyEnvOverrides lets environment variables win over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		cfg.Server.PublicBaseURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.Type = "postgres"
		if cfg.Storage.Params == nil {
			cfg.Storage.Params = map[string]string{}
		}
		cfg.Storage.Params["dsn"] = v
	}
	if v := os.Getenv("UPSTREAM_ENDPOINT"); v != "" {
		cfg.Upstream.Endpoint = v
	}
	if v := os.Getenv("UPSTREAM_API_KEY"); v != "" {
		cfg.Upstream.APIKey = v
	}
	if v := os.Getenv("UPSTREAM_MODEL"); v != "" {
		cfg.Upstream.Model = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 60 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "memory"
	}
	if cfg.Archive.Type == "" {
		cfg.Archive.Type = "memory"
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 60 * time.Second
	}
}

// BaseURL returns the externally visible base URL of the gateway. An
// explicit configuration wins; otherwise the URL is derived from the
// server listen address, falling back to a fixed local default.
func (c *Config) BaseURL() string {
	if c.Server.PublicBaseURL != "" {
		return c.Server.PublicBaseURL
	}
	if c.Server.Port != 0 {
		host := c.Server.Host
		// Wildcard listen addresses are not reachable URLs.
		if host == "" || host == "0.0.0.0" || host == "::" {
			host = "localhost"
		}
		return fmt.Sprintf("http://%s:%d", host, c.Server.Port)
	}
	return defaultBaseURL
}

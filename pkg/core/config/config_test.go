// Copyright Gentext Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9090
  timeout: 30s
storage:
  type: sqlite
  params:
    path: /tmp/gw.db
archive:
  type: filesystem
  params:
    base_dir: /tmp/payloads
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Server.Timeout)
	}
	if cfg.Storage.Type != "sqlite" || cfg.Storage.Params["path"] != "/tmp/gw.db" {
		t.Errorf("Storage = %+v, want sqlite with path", cfg.Storage)
	}
	if cfg.Archive.Type != "filesystem" {
		t.Errorf("Archive.Type = %q, want filesystem", cfg.Archive.Type)
	}
	// Defaults fill the rest
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging defaults = %+v", cfg.Logging)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load succeeded on missing file, want error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Type != "memory" || cfg.Archive.Type != "memory" {
		t.Errorf("backend defaults = %q/%q, want memory/memory", cfg.Storage.Type, cfg.Archive.Type)
	}
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "explicit wins",
			cfg: Config{Server: ServerConfig{
				PublicBaseURL: "https://gw.example.com",
				Host:          "0.0.0.0",
				Port:          8080,
			}},
			want: "https://gw.example.com",
		},
		{
			name: "derived from listen address",
			cfg:  Config{Server: ServerConfig{Host: "10.0.0.5", Port: 9090}},
			want: "http://10.0.0.5:9090",
		},
		{
			name: "wildcard host maps to localhost",
			cfg:  Config{Server: ServerConfig{Host: "0.0.0.0", Port: 8081}},
			want: "http://localhost:8081",
		},
		{
			name: "fixed local fallback",
			cfg:  Config{},
			want: "http://localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.BaseURL(); got != tt.want {
				t.Errorf("BaseURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBaseURL_EnvOverride(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://public.example.com")
	cfg := Default()
	if got := cfg.BaseURL(); got != "https://public.example.com" {
		t.Errorf("BaseURL = %q, want env override", got)
	}
}

package config

import (
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func validConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL: "https://catalog.example.com",
			Timeout: 5 * time.Second,
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    "state.json",
		},
	}
}

func TestSetDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.SetDefaults()

	if cfg.Catalog.BaseURL != DefaultCatalogURL {
		t.Errorf("Catalog.BaseURL = %q, want default", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Timeout != 10*time.Second {
		t.Errorf("Catalog.Timeout = %v, want 10s", cfg.Catalog.Timeout)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("Storage.Backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Storage.Path != DefaultStoragePath {
		t.Errorf("Storage.Path = %q, want default", cfg.Storage.Path)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want info/text", cfg.Log)
	}
}

func TestSetDefaults_KeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.SetDefaults()

	if cfg.Catalog.BaseURL != "https://catalog.example.com" {
		t.Errorf("Catalog.BaseURL = %q, explicit value overwritten", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Timeout != 5*time.Second {
		t.Errorf("Catalog.Timeout = %v, explicit value overwritten", cfg.Catalog.Timeout)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:   "sqlite backend",
			mutate: func(c *Config) { c.Storage.Backend = "sqlite"; c.Storage.Path = "state.db" },
		},
		{
			name:   "memory backend",
			mutate: func(c *Config) { c.Storage.Backend = "memory" },
		},
		{
			name:    "missing base url",
			mutate:  func(c *Config) { c.Catalog.BaseURL = "" },
			wantErr: "required",
		},
		{
			name:    "malformed base url",
			mutate:  func(c *Config) { c.Catalog.BaseURL = "not a url" },
			wantErr: "must be a valid URL",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "redis" },
			wantErr: "must be one of",
		},
		{
			name:    "directory as storage path",
			mutate:  func(c *Config) { c.Storage.Path = "/var/lib/cursoteca/" },
			wantErr: "is a directory",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "must be one of",
		},
		{
			name:    "bad metrics addr",
			mutate:  func(c *Config) { c.Metrics.Addr = "no-port" },
			wantErr: "must be a valid host:port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultYAML(t *testing.T) {
	t.Parallel()

	out, err := DefaultYAML()
	if err != nil {
		t.Fatalf("DefaultYAML() error: %v", err)
	}

	var doc map[string]map[string]any
	if err := yaml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("default config is not valid YAML: %v", err)
	}
	if got := doc["catalog"]["base_url"]; got != DefaultCatalogURL {
		t.Errorf("catalog.base_url = %v, want default", got)
	}
	if got := doc["storage"]["backend"]; got != "file" {
		t.Errorf("storage.backend = %v, want file", got)
	}
}

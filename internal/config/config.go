// Package config provides configuration loading for the cursoteca client.
package config

import "time"

// DefaultCatalogURL is the remote catalog endpoint of record. Overridable
// per install; the catalog base resource path (/productos) is fixed.
const DefaultCatalogURL = "https://68d1ee76e6c0cbeb39a62062.mockapi.io"

// DefaultStoragePath is the local state file used when none is configured.
const DefaultStoragePath = "cursoteca-state.json"

// Config is the full client configuration.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// CatalogConfig points at the remote catalog collaborator.
type CatalogConfig struct {
	// BaseURL is the catalog service root, without the resource path.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Timeout bounds each catalog request. Default: 10s.
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig selects the durable local storage backend.
type StorageConfig struct {
	// Backend is "file" (JSON state file), "sqlite", or "memory" for
	// ephemeral state that does not survive the process.
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite memory"`

	// Path is the storage file location. Ignored by the memory backend.
	Path string `mapstructure:"path" validate:"required"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
}

// MetricsConfig optionally exposes Prometheus metrics.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables the listener.
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// TracingConfig toggles the stdout span exporter.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SetDefaults fills optional fields that were left empty.
func (c *Config) SetDefaults() {
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = DefaultCatalogURL
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = 10 * time.Second
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultStoragePath
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// InitViper initializes Viper with the configuration file and environment
// variables. If configFile is empty, it searches for cursoteca.yaml/.yml in
// standard locations. The search requires an explicit YAML extension to
// avoid matching the binary itself.
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		// No config file found in any standard location. Set name/type
		// without search paths so ReadInConfig returns
		// ConfigFileNotFoundError (handled gracefully by callers).
		viper.SetConfigName("cursoteca")
		viper.SetConfigType("yaml")
	}

	// Environment variable support: CURSOTECA_CATALOG_BASE_URL
	viper.SetEnvPrefix("CURSOTECA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindNestedEnvKeys()
}

// findConfigFile searches standard locations for a cursoteca config file
// with an explicit YAML extension (.yaml or .yml).
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".cursoteca"),
		"/etc/cursoteca",
	}
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "cursoteca"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// bindNestedEnvKeys binds all config keys for environment variable support.
// Example: CURSOTECA_CATALOG_BASE_URL overrides catalog.base_url
func bindNestedEnvKeys() {
	_ = viper.BindEnv("catalog.base_url")
	_ = viper.BindEnv("catalog.timeout")

	_ = viper.BindEnv("storage.backend")
	_ = viper.BindEnv("storage.path")

	_ = viper.BindEnv("log.level")
	_ = viper.BindEnv("log.format")

	_ = viper.BindEnv("metrics.addr")
	_ = viper.BindEnv("tracing.enabled")
}

// LoadConfig reads the configuration file, applies environment overrides,
// sets defaults and validates the result.
func LoadConfig() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - continue with env vars and defaults only.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the path to the configuration file that was
// loaded, or an empty string when running from env vars and defaults only.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

// DefaultYAML renders the default configuration as a YAML document, used by
// the `config init` command to seed a new install.
func DefaultYAML() ([]byte, error) {
	doc := map[string]any{
		"catalog": map[string]any{
			"base_url": DefaultCatalogURL,
			"timeout":  "10s",
		},
		"storage": map[string]any{
			"backend": "file",
			"path":    DefaultStoragePath,
		},
		"log": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"metrics": map[string]any{
			"addr": "",
		},
		"tracing": map[string]any{
			"enabled": false,
		},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal default config: %w", err)
	}
	return out, nil
}

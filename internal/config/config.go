// Package config provides configuration management for the storefront CLI.
//
// Configuration Sources (highest precedence first):
//   - Command-line flags
//   - Environment variables: STOREFRONT_* prefix (e.g. STOREFRONT_API_BASE_URL)
//   - Config file: ~/.storefront/config.yaml, ./config.yaml, or --config
//   - Defaults from ApplyDefaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "STOREFRONT"

// Config holds all CLI configuration.
type Config struct {
	// Backend
	BaseURL string

	// Authentication
	AccessToken string
	CustomerID  string

	// Retry Settings
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration

	// HTTP
	Timeout time.Duration

	// Output Settings
	OutputFormat string // table, json, csv
	LogLevel     string

	ConfigFile string
}

// Load loads configuration from the default locations.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration, reading path when it is non-empty instead of
// searching the default locations. An explicit path must exist.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	ApplyDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".storefront"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	return &Config{
		BaseURL:      strings.TrimRight(v.GetString("api.base-url"), "/"),
		AccessToken:  v.GetString("auth.access-token"),
		CustomerID:   v.GetString("auth.customer-id"),
		MaxAttempts:  v.GetInt("retry.max-attempts"),
		BaseDelay:    time.Duration(v.GetInt("retry.base-delay-ms")) * time.Millisecond,
		Jitter:       time.Duration(v.GetInt("retry.jitter-ms")) * time.Millisecond,
		Timeout:      v.GetDuration("http.timeout"),
		OutputFormat: v.GetString("defaults.output-format"),
		LogLevel:     v.GetString("log.level"),
		ConfigFile:   v.ConfigFileUsed(),
	}, nil
}

// LoadWithFlags loads configuration and applies flag overrides. Only flags
// the user actually set should be passed.
func LoadWithFlags(configPath string, flagOverrides map[string]interface{}) (*Config, error) {
	cfg, err := LoadFrom(configPath)
	if err != nil {
		return nil, err
	}

	for key, value := range flagOverrides {
		switch key {
		case "base-url":
			if v, ok := value.(string); ok {
				cfg.BaseURL = strings.TrimRight(v, "/")
			}
		case "token":
			if v, ok := value.(string); ok {
				cfg.AccessToken = v
			}
		case "customer":
			if v, ok := value.(string); ok {
				cfg.CustomerID = v
			}
		case "format":
			if v, ok := value.(string); ok {
				cfg.OutputFormat = v
			}
		case "log-level":
			if v, ok := value.(string); ok {
				cfg.LogLevel = v
			}
		case "max-attempts":
			if v, ok := value.(int); ok {
				cfg.MaxAttempts = v
			}
		}
	}

	return cfg, nil
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("api base URL is required (set api.base-url or STOREFRONT_API_BASE_URL)")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base URL %q is not an absolute URL", c.BaseURL)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("retry.max-attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.BaseDelay < 0 || c.Jitter < 0 {
		return errors.New("retry delays must not be negative")
	}
	switch c.OutputFormat {
	case "table", "json", "csv":
	default:
		return fmt.Errorf("unsupported output format %q (use table, json or csv)", c.OutputFormat)
	}
	return nil
}

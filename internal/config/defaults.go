package config

import (
	"github.com/spf13/viper"
)

// ApplyDefaults sets default configuration values in the provided Viper instance.
func ApplyDefaults(v *viper.Viper) {
	// Backend (local catalog API)
	v.SetDefault("api.base-url", "http://localhost:5002")

	// Authentication (anonymous unless configured)
	v.SetDefault("auth.access-token", "")
	v.SetDefault("auth.customer-id", "")

	// Retry Settings
	v.SetDefault("retry.max-attempts", 3)
	v.SetDefault("retry.base-delay-ms", 500)
	v.SetDefault("retry.jitter-ms", 100)

	v.SetDefault("http.timeout", "30s")

	v.SetDefault("defaults.output-format", "table") // table, json, csv
	v.SetDefault("log.level", "info")
}

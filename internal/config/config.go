// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

const (
	// EnvBaseURL selects the upstream Sefaria API host
	EnvBaseURL = "SEFARIA_API_BASE_URL"
	// EnvHTTPTimeout sets the upstream HTTP timeout in seconds
	EnvHTTPTimeout = "SEFARIA_HTTP_TIMEOUT_SEC"

	// DefaultBaseURL is the production Sefaria host
	DefaultBaseURL = "https://www.sefaria.org"
	// DefaultHTTPTimeout bounds every upstream call
	DefaultHTTPTimeout = 30 * time.Second
)

// Config holds all runtime settings
type Config struct {
	BaseURL     string
	HTTPTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for anything unset or malformed.
func Load() Config {
	cfg := Config{
		BaseURL:     DefaultBaseURL,
		HTTPTimeout: DefaultHTTPTimeout,
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}

	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.HTTPTimeout = time.Duration(secs) * time.Second
		}
	}

	return cfg
}

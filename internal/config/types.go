// Package config loads console configuration from file, environment, and
// CLI flags.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all console configuration.
type Config struct {
	// APIURL is the base URL of the Lucid API.
	APIURL string `koanf:"api_url"`

	// Port the console listens on.
	Port int `koanf:"port"`

	// SessionSecret signs the console's own session cookies. Generated at
	// startup when empty.
	SessionSecret string `koanf:"session_secret"`

	// LoginPath and HomePath are the auth gate's redirect targets.
	LoginPath string `koanf:"login_path"`
	HomePath  string `koanf:"home_path"`

	// AuthPollInterval is how often the gate re-checks the auth state
	// while it is unresolved.
	AuthPollInterval time.Duration `koanf:"auth_poll_interval"`

	Verbose bool `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultPort             = 8780
	DefaultAPIURL           = "http://localhost:8779"
	DefaultLoginPath        = "/auth/login"
	DefaultHomePath         = "/"
	DefaultAuthPollInterval = 100 * time.Millisecond
)

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	if _, err := url.Parse(c.APIURL); err != nil {
		return fmt.Errorf("invalid api_url %q: %w", c.APIURL, err)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.LoginPath == c.HomePath {
		return fmt.Errorf("login_path and home_path must differ")
	}
	return nil
}

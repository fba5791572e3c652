// Package config loads the application settings from the environment once at
// startup.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Netflix/go-env"
)

// Config for the CLI and any other consumer of the API client.
type Config struct {
	Environment     string        `env:"ENVIRONMENT,default=dev"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	APIBaseURL      string        `env:"API_BASE_URL,default=http://localhost:3000/api"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
	EnableAnalytics bool          `env:"ENABLE_ANALYTICS,default=false"`
	Debug           bool          `env:"DEBUG,default=false"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"staging": true,
	"prod":    true,
}

func NewConfig() (*Config, error) {
	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, staging, prod", cfg.Environment)
	}

	if cfg.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL cannot be empty")
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must use http or https, got %q", cfg.APIBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("API_BASE_URL does not include a host: %s", cfg.APIBaseURL)
	}

	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", cfg.RequestTimeout)
	}

	return nil
}

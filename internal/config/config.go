package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	Policy    PolicyConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// UpstreamConfig holds outbound fetch configuration.
type UpstreamConfig struct {
	DocumentTimeout time.Duration `envconfig:"UPSTREAM_DOCUMENT_TIMEOUT" default:"15s"`
	ResourceTimeout time.Duration `envconfig:"UPSTREAM_RESOURCE_TIMEOUT" default:"25s"`
	MaxBodyBytes    int64         `envconfig:"UPSTREAM_MAX_BODY_BYTES" default:"10485760"`
}

// PolicyConfig holds the initial policy gate state. Both values are
// mutable at runtime through the policy source.
type PolicyConfig struct {
	BlockedDomains []string `envconfig:"POLICY_BLOCKED_DOMAINS"`
	Maintenance    bool     `envconfig:"POLICY_MAINTENANCE" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
		Upstream: UpstreamConfig{
			DocumentTimeout: 15 * time.Second,
			ResourceTimeout: 25 * time.Second,
			MaxBodyBytes:    10 * 1024 * 1024,
		},
		Policy: PolicyConfig{
			Maintenance: false,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

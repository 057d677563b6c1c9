package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Blueprints BlueprintsConfig
	Search     SearchConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port      string `envconfig:"PORT" default:"8000"`
	Host      string `envconfig:"HOST" default:"0.0.0.0"`
	StaticDir string `envconfig:"STATIC_DIR" default:""`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// BlueprintsConfig holds blueprint repository configuration.
type BlueprintsConfig struct {
	Root         string `envconfig:"BLUEPRINTS_ROOT" default:"./blueprints"`
	ExcerptLines int    `envconfig:"BLUEPRINTS_EXCERPT_LINES" default:"50"`
	Cache        bool   `envconfig:"BLUEPRINTS_CACHE" default:"false"`
}

// SearchConfig holds search configuration.
type SearchConfig struct {
	MaxResults int `envconfig:"SEARCH_MAX_RESULTS" default:"100"`
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
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Blueprints: BlueprintsConfig{
			Root:         "./blueprints",
			ExcerptLines: 50,
		},
		Search: SearchConfig{
			MaxResults: 100,
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
		},
	}
}

// Validate checks value ranges that envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("port %q out of range", c.Server.Port))
	}
	if c.Blueprints.Root == "" {
		errs = append(errs, errors.New("blueprints root must not be empty"))
	}
	if c.Blueprints.ExcerptLines <= 0 {
		errs = append(errs, fmt.Errorf("excerpt lines must be positive, got %d", c.Blueprints.ExcerptLines))
	}
	if c.Search.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("search max results must be positive, got %d", c.Search.MaxResults))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rate limit requires positive rps and burst"))
	}

	return errors.Join(errs...)
}

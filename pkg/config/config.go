// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envFile = ".env"

// Config holds every tunable of the service.
type Config struct {
	Port            int           `mapstructure:"port"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	UpstreamBaseURL string        `mapstructure:"upstream_base_url"`
	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout"`

	RetryAttempts   int           `mapstructure:"retry_attempts"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
	RetryMaxBackoff time.Duration `mapstructure:"retry_max_backoff"`

	MaxChainSteps    int `mapstructure:"max_chain_steps"`
	FanoutLimit      int `mapstructure:"fanout_limit"`
	DefaultPageLimit int `mapstructure:"default_page_limit"`
}

var keys = []string{
	"port",
	"log_level",
	"shutdown_timeout",
	"upstream_base_url",
	"upstream_timeout",
	"retry_attempts",
	"retry_backoff",
	"retry_max_backoff",
	"max_chain_steps",
	"fanout_limit",
	"default_page_limit",
}

// Load reads .env (without overriding the real environment), applies
// defaults and validates the result.
func Load() (*Config, error) {
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, v := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, v)
			}
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	for _, k := range keys {
		_ = v.BindEnv(k, strings.ToUpper(k))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 3333)
	v.SetDefault("log_level", "info")
	v.SetDefault("shutdown_timeout", 5*time.Second)

	v.SetDefault("upstream_base_url", "https://pokeapi.co/api/v2")
	v.SetDefault("upstream_timeout", 10*time.Second)

	v.SetDefault("retry_attempts", 3)
	v.SetDefault("retry_backoff", time.Duration(0))
	v.SetDefault("retry_max_backoff", 2*time.Second)

	v.SetDefault("max_chain_steps", 16)
	v.SetDefault("fanout_limit", 16)
	v.SetDefault("default_page_limit", 10)
}

// Validate ensures required fields are present and within range.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if strings.TrimSpace(c.UpstreamBaseURL) == "" {
		return errors.New("UPSTREAM_BASE_URL is required")
	}
	if u, err := url.Parse(c.UpstreamBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL must be an absolute url, got %q", c.UpstreamBaseURL)
	}
	if c.UpstreamTimeout <= 0 {
		return errors.New("UPSTREAM_TIMEOUT must be positive")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1, got %d", c.RetryAttempts)
	}
	if c.RetryBackoff < 0 || c.RetryMaxBackoff < 0 {
		return errors.New("RETRY_BACKOFF and RETRY_MAX_BACKOFF cannot be negative")
	}
	if c.MaxChainSteps < 1 {
		return fmt.Errorf("MAX_CHAIN_STEPS must be at least 1, got %d", c.MaxChainSteps)
	}
	if c.FanoutLimit < 1 {
		return fmt.Errorf("FANOUT_LIMIT must be at least 1, got %d", c.FanoutLimit)
	}
	if c.DefaultPageLimit < 1 {
		return fmt.Errorf("DEFAULT_PAGE_LIMIT must be at least 1, got %d", c.DefaultPageLimit)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Level returns the parsed log level.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

package config

import (
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PORT", "UPSTREAM_BASE_URL", "RETRY_ATTEMPTS", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3333, cfg.Port)
	assert.Equal(t, ":3333", cfg.Addr())
	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.UpstreamBaseURL)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, time.Duration(0), cfg.RetryBackoff)
	assert.Equal(t, 16, cfg.MaxChainSteps)
	assert.Equal(t, 10, cfg.DefaultPageLimit)
	assert.Equal(t, log.InfoLevel, cfg.Level())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("UPSTREAM_BASE_URL", "http://localhost:9000/api/v2")
	t.Setenv("UPSTREAM_TIMEOUT", "2s")
	t.Setenv("RETRY_ATTEMPTS", "5")
	t.Setenv("RETRY_BACKOFF", "100ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:9000/api/v2", cfg.UpstreamBaseURL)
	assert.Equal(t, 2*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 5, cfg.RetryAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.RetryBackoff)
	assert.Equal(t, log.DebugLevel, cfg.Level())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:             3333,
			LogLevel:         "info",
			UpstreamBaseURL:  "https://pokeapi.co/api/v2",
			UpstreamTimeout:  time.Second,
			RetryAttempts:    3,
			MaxChainSteps:    16,
			FanoutLimit:      4,
			DefaultPageLimit: 10,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 0 }},
		{"base url missing", func(c *Config) { c.UpstreamBaseURL = " " }},
		{"base url relative", func(c *Config) { c.UpstreamBaseURL = "/api/v2" }},
		{"timeout", func(c *Config) { c.UpstreamTimeout = 0 }},
		{"attempts", func(c *Config) { c.RetryAttempts = 0 }},
		{"backoff", func(c *Config) { c.RetryBackoff = -time.Second }},
		{"chain steps", func(c *Config) { c.MaxChainSteps = 0 }},
		{"fanout", func(c *Config) { c.FanoutLimit = 0 }},
		{"page limit", func(c *Config) { c.DefaultPageLimit = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

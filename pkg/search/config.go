package search

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Supported search provider names.
const (
	ProviderDuckDuckGo = "duckduckgo"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds benchmark search provider settings.
type Config struct {
	Provider   string `toml:"provider"`
	BaseURL    string `toml:"base_url"`
	MaxResults int    `toml:"max_results"`
	Timeout    string `toml:"timeout"`
	UserAgent  string `toml:"user_agent"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider   string
	BaseURL    string
	MaxResults string
	Timeout    string
	UserAgent  string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.MaxResults != 0 {
		c.MaxResults = overlay.MaxResults
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderDuckDuckGo
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://lite.duckduckgo.com"
	}
	if c.MaxResults == 0 {
		c.MaxResults = 5
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.MaxResults != "" {
		if v := os.Getenv(env.MaxResults); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxResults = n
			}
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.UserAgent != "" {
		if v := os.Getenv(env.UserAgent); v != "" {
			c.UserAgent = v
		}
	}
}

func (c *Config) validate() error {
	if c.Provider != ProviderDuckDuckGo {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, c.Provider)
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("invalid max_results: %d", c.MaxResults)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}

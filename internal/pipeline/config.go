package pipeline

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the character windows applied to session text and the
// extraction worker bound.
type Config struct {
	PreviewChars     int `toml:"preview_chars"`
	AuditReportChars int `toml:"audit_report_chars"`
	ChatReportChars  int `toml:"chat_report_chars"`
	ExtractWorkers   int `toml:"extract_workers"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	PreviewChars     string
	AuditReportChars string
	ChatReportChars  string
	ExtractWorkers   string
}

// Finalize applies defaults, environment variable overrides, and validation.
// ExtractWorkers of zero selects one worker per CPU.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.PreviewChars != 0 {
		c.PreviewChars = overlay.PreviewChars
	}
	if overlay.AuditReportChars != 0 {
		c.AuditReportChars = overlay.AuditReportChars
	}
	if overlay.ChatReportChars != 0 {
		c.ChatReportChars = overlay.ChatReportChars
	}
	if overlay.ExtractWorkers != 0 {
		c.ExtractWorkers = overlay.ExtractWorkers
	}
}

func (c *Config) loadDefaults() {
	if c.PreviewChars == 0 {
		c.PreviewChars = 1000
	}
	if c.AuditReportChars == 0 {
		c.AuditReportChars = 30000
	}
	if c.ChatReportChars == 0 {
		c.ChatReportChars = 50000
	}
}

func (c *Config) loadEnv(env *Env) {
	setInt := func(name string, dst *int) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setInt(env.PreviewChars, &c.PreviewChars)
	setInt(env.AuditReportChars, &c.AuditReportChars)
	setInt(env.ChatReportChars, &c.ChatReportChars)
	setInt(env.ExtractWorkers, &c.ExtractWorkers)
}

func (c *Config) validate() error {
	if c.PreviewChars < 1 {
		return fmt.Errorf("preview_chars must be positive: %d", c.PreviewChars)
	}
	if c.AuditReportChars < 1 {
		return fmt.Errorf("audit_report_chars must be positive: %d", c.AuditReportChars)
	}
	if c.ChatReportChars < 1 {
		return fmt.Errorf("chat_report_chars must be positive: %d", c.ChatReportChars)
	}
	if c.ExtractWorkers < 0 {
		return fmt.Errorf("extract_workers cannot be negative: %d", c.ExtractWorkers)
	}
	return nil
}

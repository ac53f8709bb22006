package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "AUDITOR_SERVER_HOST"
	EnvServerPort              = "AUDITOR_SERVER_PORT"
	EnvServerReadTimeout       = "AUDITOR_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "AUDITOR_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "AUDITOR_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "AUDITOR_SERVER_IDLE_TIMEOUT"
)

// ServerConfig holds HTTP listener parameters. The write timeout bounds a
// whole audit or chat request, so it must outlast the inference timeout.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReadTimeout)
	return d
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReadHeaderTimeout)
	return d
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.WriteTimeout)
	return d
}

func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for _, f := range c.durations(overlay) {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, f := range c.durations(nil) {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	for _, f := range c.durations(nil) {
		if v := os.Getenv(f.env); v != "" {
			*f.dst = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, f := range c.durations(nil) {
		d, err := time.ParseDuration(*f.dst)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid %s: must be positive", f.name)
		}
	}
	return nil
}

type durationField struct {
	name string
	env  string
	def  string
	dst  *string
	src  *string
}

// durations lists the duration-valued fields. src points into overlay when
// one is given.
func (c *ServerConfig) durations(overlay *ServerConfig) []durationField {
	fields := []durationField{
		{"read_timeout", EnvServerReadTimeout, "1m", &c.ReadTimeout, nil},
		{"read_header_timeout", EnvServerReadHeaderTimeout, "10s", &c.ReadHeaderTimeout, nil},
		{"write_timeout", EnvServerWriteTimeout, "15m", &c.WriteTimeout, nil},
		{"idle_timeout", EnvServerIdleTimeout, "2m", &c.IdleTimeout, nil},
	}
	if overlay != nil {
		srcs := []*string{&overlay.ReadTimeout, &overlay.ReadHeaderTimeout, &overlay.WriteTimeout, &overlay.IdleTimeout}
		for i := range fields {
			fields[i].src = srcs[i]
		}
	}
	return fields
}

// Package config loads server configuration from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Session SessionConfig `yaml:"session"`
	Bus     BusConfig     `yaml:"bus"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// StoreConfig configures document persistence.
type StoreConfig struct {
	// DSN is the SQLite data source name. Empty selects the in-memory store.
	DSN string `yaml:"dsn"`
	// TemplatesDir points at the CUE template package. Empty disables
	// template loading; documents then build from request-supplied fields.
	TemplatesDir string `yaml:"templates_dir"`
}

// SessionConfig configures edit-session expiry.
type SessionConfig struct {
	MaxAge      Duration `yaml:"max_age"`
	IdleTimeout Duration `yaml:"idle_timeout"`
}

// Duration wraps time.Duration so YAML values like "30m" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// BusConfig configures the in-process event bus.
type BusConfig struct {
	BufferSize int `yaml:"buffer_size"`
}

// Default returns a Config with working defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Store: StoreConfig{
			DSN: "file:docflow.db",
		},
		Session: SessionConfig{
			MaxAge:      Duration(4 * time.Hour),
			IdleTimeout: Duration(30 * time.Minute),
		},
		Bus: BusConfig{BufferSize: 100},
	}
}

// Load reads configuration from path when non-empty, then applies
// environment overrides. A missing file is only an error when a path was
// given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv("TEMPLATES_DIR"); v != "" {
		c.Store.TemplatesDir = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Session.MaxAge <= 0 {
		return fmt.Errorf("session.max_age must be positive")
	}
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("session.idle_timeout must be positive")
	}
	if c.Bus.BufferSize <= 0 {
		return fmt.Errorf("bus.buffer_size must be positive")
	}
	return nil
}

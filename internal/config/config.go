// Package config loads settings from defaults, an optional TOML file, a .env
// file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Service    ServiceConfig    `toml:"service"`
	Session    SessionConfig    `toml:"session"`
	Generation GenerationConfig `toml:"generation"`
	Logging    LoggingConfig    `toml:"logging"`
}

type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
	StaticDir      string   `toml:"static_dir"` // empty = no static UI
}

// ServiceConfig points at the remote persona generation service.
type ServiceConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

type SessionConfig struct {
	Timeout       Duration `toml:"timeout"` // idle expiry, 0 = never
	SweepInterval Duration `toml:"sweep_interval"`
}

type GenerationConfig struct {
	MaxCount int `toml:"max_count"` // 0 = unlimited
}

type LoggingConfig struct {
	Mode string `toml:"mode"` // "development" or "production"
}

// Duration is a time.Duration that can be unmarshaled from TOML strings.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			AllowedOrigins: []string{
				"http://localhost:5050",
				"http://127.0.0.1:5050",
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			},
		},
		Service: ServiceConfig{
			BaseURL: "http://127.0.0.1:5050/api/personas",
			Timeout: Duration(60 * time.Second),
		},
		Session: SessionConfig{
			Timeout:       Duration(2 * time.Hour),
			SweepInterval: Duration(5 * time.Minute),
		},
		Generation: GenerationConfig{
			MaxCount: 100,
		},
		Logging: LoggingConfig{
			Mode: "development",
		},
	}
}

// Load builds the configuration. path names an optional TOML file; a
// missing .env file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := env("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := env("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := env("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := env("STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := env("PERSONA_SERVICE_URL"); v != "" {
		c.Service.BaseURL = v
	}
	if err := envDuration("PERSONA_SERVICE_TIMEOUT", &c.Service.Timeout); err != nil {
		return err
	}
	if err := envDuration("SESSION_TIMEOUT", &c.Session.Timeout); err != nil {
		return err
	}
	if err := envDuration("SESSION_SWEEP_INTERVAL", &c.Session.SweepInterval); err != nil {
		return err
	}
	if v := env("MAX_PERSONA_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_PERSONA_COUNT %q: %w", v, err)
		}
		c.Generation.MaxCount = n
	}
	if v := env("LOG_MODE"); v != "" {
		c.Logging.Mode = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if strings.TrimSpace(c.Service.BaseURL) == "" {
		return errors.New("persona service base URL is required")
	}
	if c.Service.Timeout.Duration() <= 0 {
		return errors.New("persona service timeout must be positive")
	}
	if c.Generation.MaxCount < 0 {
		return errors.New("max persona count must not be negative")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func envDuration(name string, dst *Duration) error {
	v := env(name)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	*dst = Duration(d)
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

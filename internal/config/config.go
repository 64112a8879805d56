// Package config loads server configuration for the example binaries from a
// YAML file with environment variable overrides layered on top.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/watt-toolkit/arc/pkg/arc/server"
)

// envPrefix is the prefix for environment overrides: ARC_SERVER_ADDR
// becomes server.addr.
const envPrefix = "ARC_"

// Config is the top-level configuration for an arc application.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Session SessionConfig `koanf:"session"`
}

// ServerConfig holds the listen and protocol options.
type ServerConfig struct {
	Addr              string `koanf:"addr"`
	IncludeDateHeader bool   `koanf:"include_date_header"`
	MaxBodySize       int64  `koanf:"max_body_size"`
	IncludeConnInfo   bool   `koanf:"include_conn_info"`
	IncludeServerInfo bool   `koanf:"include_server_info"`
	Workers           int    `koanf:"workers"`
	SpawnOnFull       bool   `koanf:"spawn_on_full"`
}

// SessionConfig holds the session provider options.
type SessionConfig struct {
	CookieName string        `koanf:"cookie_name"`
	TTL        time.Duration `koanf:"ttl"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			IncludeDateHeader: true,
			MaxBodySize:       server.DefaultMaxBodySize,
			IncludeServerInfo: true,
			SpawnOnFull:       true,
		},
		Session: SessionConfig{
			CookieName: "session_id",
			TTL:        time.Hour,
		},
	}
}

// Load reads the YAML file at path, layers ARC_* environment variables on
// top, and returns the populated config. A missing path loads defaults plus
// environment overrides. A .env file in the working directory is loaded
// into the process environment first, if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// ARC_SERVER_ADDR -> server.addr
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"_", ".",
		)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromEnvPath loads the file named by ARC_CONFIG, or defaults.
func LoadFromEnvPath() (*Config, error) {
	return Load(os.Getenv("ARC_CONFIG"))
}

// ServerOptions converts the loaded settings into a server.Config.
func (c *Config) ServerOptions() server.Config {
	return server.Config{
		IncludeDateHeader: c.Server.IncludeDateHeader,
		MaxBodySize:       c.Server.MaxBodySize,
		IncludeConnInfo:   c.Server.IncludeConnInfo,
		IncludeServerInfo: c.Server.IncludeServerInfo,
	}
}

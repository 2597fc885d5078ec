// Package config loads the application configuration from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Logging   LoggingConfig   `toml:"logging"`
	Data      DataConfig      `toml:"data"`
	Query     QueryConfig     `toml:"query"`
	Assistant AssistantConfig `toml:"assistant"`
}

// ServerConfig configures the HTTP API surface.
type ServerConfig struct {
	Host               string   `toml:"host"`
	Port               int      `toml:"port"`
	MaxConnections     int      `toml:"max_connections"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DataConfig points at the local read-only data sources.
type DataConfig struct {
	AirportsDB      string `toml:"airports_db"`
	GazetteerDB     string `toml:"gazetteer_db"`
	NotificationsDB string `toml:"notifications_db"`
	RulesFile       string `toml:"rules_file"`
}

// QueryConfig carries per-tool query defaults.
type QueryConfig struct {
	SearchLimit       int     `toml:"search_limit"`
	DefaultRadiusNM   float64 `toml:"default_radius_nm"`
	DefaultCorridorNM float64 `toml:"default_corridor_nm"`
}

// AssistantConfig configures the optional conversational bridge.
type AssistantConfig struct {
	Enabled     bool    `toml:"enabled"`
	Model       string  `toml:"model"`
	MaxRounds   int     `toml:"max_rounds"`
	Temperature float64 `toml:"temperature"`
}

// Load reads the configuration from the given TOML file, applying
// defaults for anything unset.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			MaxConnections: 64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Data: DataConfig{
			AirportsDB:      "data/airports.db",
			GazetteerDB:     "data/gazetteer.db",
			NotificationsDB: "data/notifications.db",
			RulesFile:       "data/rules.yaml",
		},
		Query: QueryConfig{
			SearchLimit:       10,
			DefaultRadiusNM:   50,
			DefaultCorridorNM: 25,
		},
		Assistant: AssistantConfig{
			Enabled:     false,
			Model:       "gpt-4o",
			MaxRounds:   6,
			Temperature: 0.2,
		},
	}
}

// Validate checks internal consistency of the loaded values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Query.SearchLimit <= 0 {
		return fmt.Errorf("search_limit must be positive")
	}
	if c.Query.DefaultRadiusNM <= 0 || c.Query.DefaultCorridorNM <= 0 {
		return fmt.Errorf("query radius and corridor defaults must be positive")
	}
	if c.Data.AirportsDB == "" || c.Data.GazetteerDB == "" || c.Data.NotificationsDB == "" {
		return fmt.Errorf("all data source paths must be set")
	}
	return nil
}

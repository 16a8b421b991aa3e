// Package config loads runtime settings for the scouting client.
//
// Sources are overlaid in order, later ones winning: built-in defaults, a
// JSON file (-c/-config), environment variables (optionally from .env), and
// command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the scouting client.
type Config struct {
	// ServerEndpointAddr is the base URL of the scouting server.
	ServerEndpointAddr string `validate:"required,url"`

	// DatabasePath is the DSN of the local record database.
	DatabasePath string `validate:"required"`

	// BlobDatabasePath is the DSN of the attachment blob store.
	BlobDatabasePath string `validate:"required"`

	// AutoSyncInterval is how often the background sync fires. Zero
	// disables background sync.
	AutoSyncInterval time.Duration `validate:"min=0"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabasePath = "scout.db"
	c.BlobDatabasePath = "images.db"
	c.AutoSyncInterval = 5 * time.Minute
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON, environment, and command-line flags, and validates the result.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

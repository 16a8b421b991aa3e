package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with environment variables, loading a .env file
// first if one is present in the working directory.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("SCOUTSYNC_SERVER"); v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v := os.Getenv("SCOUTSYNC_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("SCOUTSYNC_BLOB_DB"); v != "" {
		cfg.BlobDatabasePath = v
	}
	if v := os.Getenv("SCOUTSYNC_SYNC_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.AutoSyncInterval = d
		}
	}
}

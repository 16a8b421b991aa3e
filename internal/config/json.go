package config

import (
	"encoding/json"
	"fmt"
	"os"

	"scoutsync/internal/flagx"
	"scoutsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5m"
// or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	DatabasePath       string         `json:"database_path"`
	BlobDatabasePath   string         `json:"blob_database_path"`
	AutoSyncInterval   timex.Duration `json:"auto_sync_interval"`
}

// parseJson overlays cfg with values from the JSON file named by the -c or
// -config flags. No flag, no overlay. Only fields present in the file
// override the current values.
func parseJson(cfg *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.BlobDatabasePath != "" {
		cfg.BlobDatabasePath = jc.BlobDatabasePath
	}
	if jc.AutoSyncInterval.Duration != 0 {
		cfg.AutoSyncInterval = jc.AutoSyncInterval.Duration
	}
	return nil
}

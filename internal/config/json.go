package config

import (
	"encoding/json"
	"os"

	"github.com/morkath/contacts/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	DatabasePath     string `json:"database_path"`
	PhotoDir         string `json:"photo_dir"`
	DeviceSourcePath string `json:"device_source_path"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path is resolved from the -c/-config flags via
// flagx.JsonConfigFlags(); when empty, no JSON is loaded. Only keys present
// in the file override defaults. Read or unmarshal errors panic (the caller
// cannot run with a broken explicit config).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.PhotoDir != "" {
		cfg.PhotoDir = jc.PhotoDir
	}
	if jc.DeviceSourcePath != "" {
		cfg.DeviceSourcePath = jc.DeviceSourcePath
	}
}

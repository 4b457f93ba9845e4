package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/akarpov88/petkeeper/internal/flagx"
	"github.com/akarpov88/petkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the file can specify intervals either as strings like
// "30s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointURL string         `json:"server_endpoint_url"`
	UserID            string         `json:"user_id"`
	DatabasePath      string         `json:"database_path"`
	TokenFile         string         `json:"token_file"`
	SyncEnabled       *bool          `json:"sync_enabled"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with values from the JSON file named by the -c or
// -config flags. Absent file path means no overlay. Only fields present in
// the file override their defaults. Panics on read or unmarshal errors.
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

	if jc.ServerEndpointURL != "" {
		cfg.ServerEndpointURL = jc.ServerEndpointURL
	}
	if jc.UserID != "" {
		cfg.UserID = jc.UserID
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.TokenFile != "" {
		cfg.TokenFile = jc.TokenFile
	}
	if jc.SyncEnabled != nil {
		cfg.SyncEnabled = *jc.SyncEnabled
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}

// Package config handles configuration for the client: defaults, an
// optional JSON file overlay, and command-line flags, in that order.
package config

import "time"

// Config holds runtime settings for the PetKeeper client.
//
// Fields:
//   - ServerEndpointURL: base URL of the backing-store HTTP API.
//   - UserID: owner id for the user's zones.
//   - DatabasePath: path of the local SQLite database.
//   - TokenFile: path of a file holding the API bearer token; when empty the
//     CLI prompts for the token instead.
//   - SyncEnabled: global preference gating sync passes (a record that is
//     individually cloud-enabled still syncs when this is off).
//   - RequestTimeout: per-request timeout for remote calls.
type Config struct {
	ServerEndpointURL string
	UserID            string
	DatabasePath      string
	TokenFile         string
	SyncEnabled       bool
	RequestTimeout    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointURL = "http://127.0.0.1:8080"
	c.DatabasePath = "petkeeper.db"
	c.SyncEnabled = true
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

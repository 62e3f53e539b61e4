package shopkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "shopkit.json"

	// DefaultAuthURL is the default identity service base URL.
	DefaultAuthURL = "http://localhost:4000"
)

// Config represents the complete shopkit.json configuration.
type Config struct {
	// Backend selects the persistence backend: "file" or "memory".
	Backend string `json:"backend,omitempty"`

	// StateDir is where the file backend keeps snapshots.
	// Default: <user config dir>/shopkit.
	StateDir string `json:"state_dir,omitempty"`

	// AuthURL is the identity service base URL.
	AuthURL string `json:"auth_url,omitempty"`

	// Slots overrides the persistence slot keys.
	Slots SlotsConfig `json:"slots,omitempty"`

	// Metrics enables Prometheus/OpenTelemetry instrumentation on the
	// persistence backend.
	Metrics bool `json:"metrics,omitempty"`
}

// SlotsConfig names the persistence slot each store writes to.
type SlotsConfig struct {
	Cart     string `json:"cart,omitempty"`
	Wishlist string `json:"wishlist,omitempty"`
	Session  string `json:"session,omitempty"`
}

// DefaultConfig returns the configuration used when no shopkit.json
// exists.
func DefaultConfig() Config {
	return Config{
		Backend: "file",
		AuthURL: DefaultAuthURL,
	}
}

// LoadConfig reads configuration from the given path. A missing file
// yields DefaultConfig; a malformed file is an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("shopkit: read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("shopkit: parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// stateDir resolves the snapshot directory for the file backend.
func (c Config) stateDir() (string, error) {
	if c.StateDir != "" {
		return c.StateDir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("shopkit: resolve state dir: %w", err)
	}
	return filepath.Join(base, "shopkit"), nil
}

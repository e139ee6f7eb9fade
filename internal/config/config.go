// Package config loads backdesk configuration from a YAML file with
// environment and flag overrides for the backing file path.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvDatabase is the environment variable overriding the backing file path.
// It is the single externally tunable parameter of the storage core.
const EnvDatabase = "BACKDESK_DB"

// Config holds the service configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// Database is the backing file path for the embedded engine.
	Database string `yaml:"database"`

	// Seed inserts demo rows at startup when the database is empty.
	Seed bool `yaml:"seed,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:   ":8080",
		Database: "backdesk.db",
	}
}

// Load reads a YAML config file and applies defaults and the environment
// override. An empty path yields the defaults (plus override).
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		// KnownFields makes typos in config keys an error instead of
		// silently ignored settings.
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if db := os.Getenv(EnvDatabase); db != "" {
		cfg.Database = db
	}

	if cfg.Listen == "" {
		cfg.Listen = Default().Listen
	}
	if cfg.Database == "" {
		return Config{}, fmt.Errorf("config %s: database path must not be empty", path)
	}

	return cfg, nil
}

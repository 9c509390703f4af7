package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Save writes the config to the -config path when one was given, and to
// the user's config directory otherwise.
func (c *Config) Save() error {
	return c.SaveTo(SavePath())
}

// SavePath returns the file Save writes to.
func SavePath() string {
	if path := ConfigPath(); path != "" {
		return path
	}
	return filepath.Join(ConfigDir(), "config.yaml")
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	// Create parent directory if needed
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

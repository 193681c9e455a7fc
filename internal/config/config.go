// Package config handles reading and writing ~/.wrk/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	Version int           `yaml:"version"`
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig locates the backend.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// StorageConfig selects where the session is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "sqlite" | "bolt" | "memory"
}

// LogConfig controls the activity log and diagnostic output.
type LogConfig struct {
	Activity bool   `yaml:"activity"`
	Level    string `yaml:"level"` // zap level used with --debug
}

const (
	dirName    = ".wrk"
	configFile = "config.yaml"
)

// DefaultDir returns ~/.wrk.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// ReadConfig reads config.yaml from dir. A missing file yields
// DefaultConfig; fields absent from the file keep their defaults.
func ReadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// WriteConfig writes cfg to config.yaml in dir, creating dir if needed.
func WriteConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, configFile), data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APIConfig{
			BaseURL: "http://localhost:5000/api",
		},
		Storage: StorageConfig{
			Backend: "sqlite",
		},
		Log: LogConfig{
			Activity: true,
			Level:    "info",
		},
	}
}

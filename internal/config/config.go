// Package config loads and validates the sensorlog configuration. Values
// merge in priority order: built-in defaults, then the system config file,
// then the user config file. Missing files are fine; invalid values are
// construction-time errors.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sensorlog/internal/fsutil"
)

const (
	systemConfigFile = "config.yaml"
	userConfigDir    = ".sensorlog"
	userConfigFile   = "config.yaml"
)

// Load merges defaults with the system and user configuration files and
// validates the result.
func Load() (Config, error) {
	cfg := DefaultConfig()

	systemPath := filepath.Join(fsutil.ConfigDir(), systemConfigFile)
	if err := mergeConfigFile(&cfg, systemPath); err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to load system config: %w", err)
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(homeDir, userConfigDir, userConfigFile)
		if err := mergeConfigFile(&cfg, userPath); err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to load user config: %w", err)
			}
		}
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("invalid configuration: %s", formatValidationErrors(errs))
	}
	return cfg, nil
}

// LoadFrom loads configuration from an explicit path on top of the
// defaults. The file must exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := mergeConfigFile(&cfg, path); err != nil {
		return cfg, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("invalid configuration: %s", formatValidationErrors(errs))
	}
	return cfg, nil
}

// mergeConfigFile overlays the yaml file at path onto cfg.
func mergeConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func formatValidationErrors(errs []ValidationError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

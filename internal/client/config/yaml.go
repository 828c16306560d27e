package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultFile returns the config file found in the XDG config directories,
// or "" when there is none.
func DefaultFile() string {
	path, err := xdg.SearchConfigFile(appName + "/config.yaml")
	if err != nil {
		return ""
	}
	return path
}

// parseYAML overlays cfg with the keys present in the file at path. Keys
// missing from the file keep their current value. An empty path is a
// no-op.
func parseYAML(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

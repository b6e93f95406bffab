package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a pipeline configuration from a YAML file.
// Fields absent from the file keep their defaults, so a config file only
// needs to name the thresholds it overrides.
func Load(path string) (Pipeline, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

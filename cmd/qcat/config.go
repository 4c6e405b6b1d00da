package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the defaults a qcat.yaml file can set; every field has a
// matching flag that overrides it when set explicitly.
type Config struct {
	Locale string `yaml:"locale"`
	Format string `yaml:"format"`
}

func loadConfig(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

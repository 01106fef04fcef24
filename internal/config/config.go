package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned by Load when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Load reads a site configuration file, expands ${VAR} references, decodes it
// strictly and runs the normalization pass. Normalization warnings are logged.
// Validation and default merging are the resolver's job.
func Load(configPath string) (*SiteConfig, error) {
	if err := loadEnvFile(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	res, err := NormalizeConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	for _, w := range res.Warnings {
		slog.Warn("Config normalization", "config", configPath, "detail", w)
	}
	return cfg, nil
}

// Parse decodes YAML configuration content after environment expansion. Unknown
// top-level keys are rejected.
func Parse(data []byte) (*SiteConfig, error) {
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	var cfg SiteConfig
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

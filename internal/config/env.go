package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override deployment-specific fields before resolution.
const (
	EnvURL     = "DOCSITE_URL"
	EnvBaseURL = "DOCSITE_BASE_URL"
)

// loadEnvFile loads environment variables from .env/.env.local. Variables that
// are already set in the process environment win.
func loadEnvFile() error {
	var loaded []string
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("load %s: %w", envPath, err)
		}
		loaded = append(loaded, envPath)
	}
	if len(loaded) == 0 {
		return errors.New("no .env file found")
	}
	slog.Debug("Loaded environment files", "files", strings.Join(loaded, ","))
	return nil
}

// ApplyEnvOverrides replaces url/baseUrl from the environment, typically set by CI
// when deploying previews. It returns the names of the overridden fields.
func ApplyEnvOverrides(cfg *SiteConfig) []string {
	if cfg == nil {
		return nil
	}
	var changed []string
	if v := strings.TrimSpace(os.Getenv(EnvURL)); v != "" && v != cfg.URL {
		cfg.URL = v
		changed = append(changed, "url")
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" && v != cfg.BaseURL {
		cfg.BaseURL = v
		changed = append(changed, "baseUrl")
	}
	return changed
}

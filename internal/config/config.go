// Package config loads the runtime configuration from the environment. A
// .env file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const defaultPort = 5000

// Config holds the application configuration
type Config struct {
	// Port is the HTTP listening port (PORT)
	Port int
	// GeminiAPIKey is the generation-service credential (GEMINI_API_KEY)
	GeminiAPIKey string
	// DBPath is the SQLite database path (BOTGATE_DB)
	DBPath string
	// PatchEndpoint is the upstream URL prefix for the patch-notes
	// summarizer (ENDPOINT); the feature is disabled when empty
	PatchEndpoint string
}

// Load reads configuration from the environment, merging a .env file first
// when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		logrus.Debug("Loaded environment from .env file")
	}

	cfg := &Config{
		Port:          defaultPort,
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		DBPath:        os.Getenv("BOTGATE_DB"),
		PatchEndpoint: os.Getenv("ENDPOINT"),
	}

	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT value: %q", raw)
		}
		cfg.Port = port
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not defined")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "botgate.db"
	}

	return cfg, nil
}

package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Garmin  GarminConfig  `toml:"garmin"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// GarminConfig carries the non-secret defaults for a run. The password is
// never read from the config file; it comes from the GARMIN_PASSWORD
// environment variable, a flag, or the interactive prompt.
type GarminConfig struct {
	Username    string `toml:"username"`
	Privacy     string `toml:"privacy"`      // default privacy level (name or 1-4)
	SearchLimit int    `toml:"search_limit"` // activities per search request
	RateLimit   int    `toml:"rate_limit"`   // requests per second against Garmin
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Garmin: GarminConfig{
			SearchLimit: 9999, // tool intent; Garmin enforces 1000 per request
			RateLimit:   2,
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// An empty path auto-discovers gcprivacy.toml in the working directory; a
// missing auto-discovered file is not an error.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	discovered := false
	if path == "" {
		path = "gcprivacy.toml"
		discovered = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !(discovered && os.IsNotExist(err)) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if level := os.Getenv("GCPRIVACY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("GCPRIVACY_LOG_OUTPUT"); output != "" {
		config.Logging.Output = []string{output}
	}
	if username := os.Getenv("GARMIN_USERNAME"); username != "" {
		config.Garmin.Username = username
	}
	if privacy := os.Getenv("GARMIN_PRIVACY"); privacy != "" {
		config.Garmin.Privacy = privacy
	}
	if limit := os.Getenv("GCPRIVACY_SEARCH_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			config.Garmin.SearchLimit = n
		}
	}
	if rateLimit := os.Getenv("GCPRIVACY_RATE_LIMIT"); rateLimit != "" {
		if n, err := strconv.Atoi(rateLimit); err == nil && n > 0 {
			config.Garmin.RateLimit = n
		}
	}
}

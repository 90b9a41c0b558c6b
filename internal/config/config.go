package config

import (
	"os"
	"path/filepath"
	"strconv"

	"biaslens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Paths    PathConfig
	Database DatabaseConfig
	Debug    DebugConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// PathConfig holds the dataset directories
type PathConfig struct {
	BaseDir      string
	UploadDir    string
	CorrectedDir string
	ReportsDir   string
}

// DatabaseConfig holds the optional run-history database settings. When URL
// is empty the service keeps history in memory.
type DatabaseConfig struct {
	URL string
}

// DebugConfig holds the pprof/ops sidecar settings
type DebugConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	base := getEnvOrDefault("DATA_DIR", ".")
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve DATA_DIR")
	}

	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Paths: PathConfig{
			BaseDir:      absBase,
			UploadDir:    filepath.Join(absBase, "uploads"),
			CorrectedDir: filepath.Join(absBase, "corrected"),
			ReportsDir:   filepath.Join(absBase, "reports"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Debug: DebugConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Paths.BaseDir == "" {
		return errors.ConfigInvalid("data directory is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

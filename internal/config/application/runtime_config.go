package application

import (
	"os"
	"strings"
)

// RuntimeConfig holds all runtime configuration from CLI flags, environment variables, and .env file
type RuntimeConfig struct {
	// API Configuration
	APIKey  string
	APIPort string

	// Development Mode
	DevMode bool

	// Logging Configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// Database Configuration
	DBPath string
}

// Flags carries the values given on the command line; empty means unset.
type Flags struct {
	APIKey    string
	APIPort   string
	LogLevel  string
	LogFormat string
	LogOutput string
	DBPath    string
	DevMode   bool
}

// LoadRuntimeConfig loads configuration with precedence: CLI flags > env vars > .env file > defaults
func LoadRuntimeConfig(flags Flags) *RuntimeConfig {
	return &RuntimeConfig{
		APIKey:    getValue(flags.APIKey, "CIFCHECK_API_KEY", ""),
		APIPort:   getValue(flags.APIPort, "CIFCHECK_API_PORT", "8080"),
		DevMode:   flags.DevMode || getBoolEnv("CIFCHECK_DEV_MODE", false),
		LogLevel:  getValue(flags.LogLevel, "CIFCHECK_LOG_LEVEL", "INFO"),
		LogFormat: getValue(flags.LogFormat, "CIFCHECK_LOG_FORMAT", "text"),
		LogOutput: getValue(flags.LogOutput, "CIFCHECK_LOG_OUTPUT", "stdout"),
		DBPath:    getValue(flags.DBPath, "CIFCHECK_DB_PATH", "enterprises.db"),
	}
}

// getValue returns the first non-empty value from CLI flag, env var, or default
func getValue(cliValue, envKey, defaultValue string) string {
	if cliValue != "" {
		return cliValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable
func getBoolEnv(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "true" || value == "1" || value == "yes" {
		return true
	}
	if value == "false" || value == "0" || value == "no" {
		return false
	}
	return defaultValue
}

// Validate checks that the configuration needed by the API server is present
func (c *RuntimeConfig) Validate() error {
	if c.APIKey == "" {
		return &ConfigError{Field: "api-key", Message: "API key is required (set CIFCHECK_API_KEY or use --api-key flag)"}
	}
	if c.APIPort == "" {
		return &ConfigError{Field: "port", Message: "API port is required"}
	}
	if c.DBPath == "" {
		return &ConfigError{Field: "db", Message: "Database path is required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

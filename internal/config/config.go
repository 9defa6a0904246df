// ABOUTME: Configuration loading and parsing for hearth-gateway
// ABOUTME: Supports YAML files with environment variable expansion plus direct env overrides

package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the Hearth cloud endpoint used when no override is configured.
const DefaultBaseURL = "https://cloud.hearthhome.io"

// Environment variables recognized by Load. They take precedence over the
// corresponding config file values.
const (
	EnvToken   = "HEARTH_TOKEN"
	EnvBaseURL = "HEARTH_BASE_URL"
	EnvDebug   = "HEARTH_DEBUG"
	EnvConfig  = "HEARTH_CONFIG"
)

// Config represents the complete hearth-gateway configuration
type Config struct {
	Backend    BackendConfig    `yaml:"backend"`
	Logging    LoggingConfig    `yaml:"logging"`
	Validation ValidationConfig `yaml:"validation"`
}

// BackendConfig holds Hearth cloud connection configuration
type BackendConfig struct {
	// BaseURL is the Hearth cloud API root. Defaults to DefaultBaseURL.
	BaseURL string `yaml:"base_url"`
	// Token is the bearer credential attached to every backend call.
	// Required; its correctness is only discovered on the first call.
	Token string `yaml:"token"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ValidationConfig holds control-batch validation options
type ValidationConfig struct {
	// StrictDelay additionally enforces the delay-extension contract on
	// ext_data (delayEnabled/delayUnit/delayDuration) during validation.
	StrictDelay bool `yaml:"strict_delay"`
}

// Load reads configuration from the optional YAML file at path and from the
// environment. An empty path means environment-only. Environment variables in
// the file in the format ${VAR_NAME} are expanded; HEARTH_* variables override
// file values.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		// Expand environment variables in the raw YAML content
		expandedData := expandEnvVars(string(data))

		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyEnvOverrides applies HEARTH_* environment variables over file values.
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv(EnvToken); token != "" {
		cfg.Backend.Token = token
	}
	if baseURL := os.Getenv(EnvBaseURL); baseURL != "" {
		cfg.Backend.BaseURL = baseURL
	}
	if debug := os.Getenv(EnvDebug); isTruthy(debug) {
		cfg.Logging.Level = "debug"
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = DefaultBaseURL
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	// Trailing slashes produce double-slash URLs when paths are joined
	cfg.Backend.BaseURL = strings.TrimRight(cfg.Backend.BaseURL, "/")
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Backend.Token == "" {
		return fmt.Errorf("backend.token is required (set %s)", EnvToken)
	}

	return nil
}

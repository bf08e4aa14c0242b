// ABOUTME: Configuration loading and parsing for asfcred
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete asfcred configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Registry RegistryConfig `yaml:"registry"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RegistryConfig selects the component registry backing. Source is
// "database" (default) or "file"; Path names the YAML allocation list
// when the source is "file".
type RegistryConfig struct {
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
}

// AuthConfig holds token exchange configuration
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	JWTTTL    time.Duration `yaml:"-"`
	TokenTTL  time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	JWTTTLRaw   string `yaml:"jwt_ttl"`
	TokenTTLRaw string `yaml:"token_ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults applied when the corresponding field is absent.
const (
	DefaultJWTTTL   = 15 * time.Minute
	DefaultTokenTTL = 90 * 24 * time.Hour
)

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Parse duration fields
	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	switch c.Registry.Source {
	case "", "database":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required")
		}
	case "file":
		if c.Registry.Path == "" {
			return fmt.Errorf("registry.path is required when registry.source is \"file\"")
		}
	default:
		return fmt.Errorf("registry.source must be \"database\" or \"file\", got %q", c.Registry.Source)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	cfg.Auth.JWTTTL = DefaultJWTTTL
	if cfg.Auth.JWTTTLRaw != "" {
		cfg.Auth.JWTTTL, err = time.ParseDuration(cfg.Auth.JWTTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing jwt_ttl %q: %w", cfg.Auth.JWTTTLRaw, err)
		}
	}

	cfg.Auth.TokenTTL = DefaultTokenTTL
	if cfg.Auth.TokenTTLRaw != "" {
		cfg.Auth.TokenTTL, err = time.ParseDuration(cfg.Auth.TokenTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing token_ttl %q: %w", cfg.Auth.TokenTTLRaw, err)
		}
	}

	return nil
}

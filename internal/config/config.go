package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/sieve/pkg/filter"
)

// Config holds the sieve API configuration.
type Config struct {
	HTTP     HTTPConfig      `yaml:"http"`
	Database DatabaseConfig  `yaml:"database"`
	Auth     AuthConfig      `yaml:"auth"`
	Query    QueryConfig     `yaml:"query"`
	Storage  StorageConfig   `yaml:"storage"`
	Logging  LoggingConfig   `yaml:"logging"`
	Datasets []DatasetConfig `yaml:"datasets"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings. Addrs may be empty when
// every dataset is file backed.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// QueryConfig holds paging limits applied by the HTTP transport.
type QueryConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// DatasetConfig describes one named dataset. Exactly one of File and
// RedisKey must be set.
type DatasetConfig struct {
	Name         string       `yaml:"name"`
	File         string       `yaml:"file"`
	RedisKey     string       `yaml:"redis_key"`
	RedisFormat  string       `yaml:"redis_format"`  // string (default) or json
	Schema       string       `yaml:"schema"`        // optional JSON schema file
	DelayMs      int          `yaml:"delay_ms"`      // injected latency per call
	SearchFields []string     `yaml:"search_fields"` // empty: all fields
	IgnoreCase   bool         `yaml:"search_ignore_case"`
	Scope        *filter.Spec `yaml:"scope"`         // always applied
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a YAML document.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Query.DefaultPageSize <= 0 {
		c.Query.DefaultPageSize = 20
	}
	if c.Query.MaxPageSize <= 0 {
		c.Query.MaxPageSize = 1000
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "sieve:"
	}
}

// NeedsDatabase reports whether any dataset is stored in Redis.
func (c *Config) NeedsDatabase() bool {
	for _, d := range c.Datasets {
		if d.RedisKey != "" {
			return true
		}
	}
	return false
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Query.DefaultPageSize > c.Query.MaxPageSize {
		return fmt.Errorf(
			"query.default_page_size (%d) exceeds query.max_page_size (%d)",
			c.Query.DefaultPageSize, c.Query.MaxPageSize,
		)
	}
	if c.NeedsDatabase() && len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required when a dataset uses redis_key")
	}

	seen := make(map[string]bool, len(c.Datasets))
	for i, d := range c.Datasets {
		if d.Name == "" {
			return fmt.Errorf("datasets[%d].name is required", i)
		}
		if seen[d.Name] {
			return fmt.Errorf("datasets.%s: duplicate name", d.Name)
		}
		seen[d.Name] = true

		if (d.File == "") == (d.RedisKey == "") {
			return fmt.Errorf("datasets.%s: exactly one of file or redis_key must be set", d.Name)
		}
		switch d.RedisFormat {
		case "", "string", "json":
		default:
			return fmt.Errorf(
				"datasets.%s.redis_format must be \"string\" or \"json\", got %q", d.Name, d.RedisFormat,
			)
		}
		if d.DelayMs < 0 {
			return fmt.Errorf("datasets.%s.delay_ms must not be negative, got %d", d.Name, d.DelayMs)
		}
		if d.Scope != nil {
			if _, err := d.Scope.Filter(); err != nil {
				return fmt.Errorf("datasets.%s.scope: %w", d.Name, err)
			}
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

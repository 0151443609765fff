package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/docsearch/internal/domain/search/options"
)

// Config holds the docsearch service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Engine  EngineConfig  `yaml:"engine"`
	Source  SourceConfig  `yaml:"source"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
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
	RequestTimeout  int `yaml:"request_timeout_sec"` // per-message wait on the engine
}

// EngineConfig holds search engine settings and the default search options.
type EngineConfig struct {
	CacheSize    int      `yaml:"cache_size"`
	QueueSize    int      `yaml:"queue_size"`
	MaxResults   int      `yaml:"max_results"`
	Threshold    *float64 `yaml:"threshold"` // nil = default; 0 is a valid threshold
	SearchFields []string `yaml:"search_fields"`
	SortBy       string   `yaml:"sort_by"`
}

// SourceConfig holds the document source connection settings.
// An empty driver disables the source; documents then arrive via the API only.
type SourceConfig struct {
	Driver           string   `yaml:"driver"` // "", redis, valkey
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	RefreshInterval  int      `yaml:"refresh_interval_sec"` // 0 = load once at startup
}

// Enabled reports whether a document source is configured.
func (s *SourceConfig) Enabled() bool { return s.Driver != "" }

// SearchDefaults converts the engine section into resolved search options.
func (e *EngineConfig) SearchDefaults() options.Options {
	opts := options.Default()
	if e.MaxResults > 0 {
		opts.MaxResults = e.MaxResults
	}
	if e.Threshold != nil {
		opts.Threshold = *e.Threshold
	}
	if len(e.SearchFields) > 0 {
		opts.SearchFields = make([]options.Field, len(e.SearchFields))
		for i, f := range e.SearchFields {
			opts.SearchFields[i] = options.Field(f)
		}
	}
	if e.SortBy != "" {
		opts.SortBy = options.SortBy(e.SortBy)
	}
	return opts
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

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
	if c.HTTP.RequestTimeout <= 0 {
		c.HTTP.RequestTimeout = 5
	}
	if c.Engine.CacheSize <= 0 {
		c.Engine.CacheSize = 100
	}
	if c.Engine.QueueSize <= 0 {
		c.Engine.QueueSize = 64
	}
	if c.Source.ReadinessTimeout <= 0 {
		c.Source.ReadinessTimeout = 10
	}
	if c.Source.KeyPrefix == "" {
		c.Source.KeyPrefix = "docsearch:doc:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Engine.MaxResults < 0 {
		return fmt.Errorf("engine.max_results must be non-negative, got %d", c.Engine.MaxResults)
	}
	defaults := c.Engine.SearchDefaults()
	if err := defaults.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	switch c.Source.Driver {
	case "":
	case "redis", "valkey":
		if len(c.Source.Addrs) == 0 {
			return fmt.Errorf("source.addrs is required for driver %q", c.Source.Driver)
		}
	default:
		return fmt.Errorf("source.driver must be \"redis\" or \"valkey\", got %q", c.Source.Driver)
	}
	if c.Source.RefreshInterval < 0 {
		return fmt.Errorf("source.refresh_interval_sec must be non-negative, got %d", c.Source.RefreshInterval)
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

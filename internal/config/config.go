// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Cache backends
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values come from the environment or Defaults.
type Config struct {
	// Model provider
	Provider string `json:"provider,omitempty"` // openrouter or gemini
	APIKey   string `json:"api_key,omitempty"`  // Provider API key
	Model    string `json:"model,omitempty"`    // Pins every tier to one model
	BaseURL  string `json:"base_url,omitempty"` // OpenAI-compatible endpoint root

	// Server
	Port           int      `json:"port,omitempty"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"` // CORS origins; empty allows any origin

	// Cache
	CacheBackend        string `json:"cache_backend,omitempty"` // memory, redis or none
	RedisURL            string `json:"redis_url,omitempty"`
	CacheTTLSeconds     int    `json:"cache_ttl_seconds,omitempty"`
	CacheSweepThreshold int    `json:"cache_sweep_threshold,omitempty"`

	// Logging
	LogMode string `json:"log_mode,omitempty"` // dev or prod
	LogFile string `json:"log_file,omitempty"` // Rotated JSON log file
	Verbose bool   `json:"verbose,omitempty"`  // Print detailed debug information

	// Model call budgets
	QuickTimeoutSeconds      int `json:"quick_timeout_seconds,omitempty"`      // Resume analysis and recommendations
	GenerationTimeoutSeconds int `json:"generation_timeout_seconds,omitempty"` // Roadmap generation
	GenerationMaxTokens      int `json:"generation_max_tokens,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Provider:                 "openrouter",
		Port:                     8080,
		CacheBackend:             CacheMemory,
		CacheTTLSeconds:          300,
		CacheSweepThreshold:      100,
		LogMode:                  "dev",
		QuickTimeoutSeconds:      120,
		GenerationTimeoutSeconds: 900,
		GenerationMaxTokens:      8000,
	}
}

// FromEnv reads configuration from environment variables. The API key is
// taken from the variable matching the provider.
func FromEnv() Config {
	cfg := Config{
		Provider:     strings.ToLower(os.Getenv("LLM_PROVIDER")),
		Model:        os.Getenv("LLM_MODEL"),
		BaseURL:      os.Getenv("LLM_BASE_URL"),
		CacheBackend: strings.ToLower(os.Getenv("CACHE_BACKEND")),
		RedisURL:     os.Getenv("REDIS_URL"),
		LogMode:      os.Getenv("LOG_MODE"),
		LogFile:      os.Getenv("LOG_FILE"),
	}

	cfg.APIKey = APIKeyFromEnv(cfg.Provider)

	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = port
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg
}

// APIKeyFromEnv returns the API key variable for a provider.
func APIKeyFromEnv(provider string) string {
	if strings.EqualFold(provider, "gemini") {
		return os.Getenv("GEMINI_API_KEY")
	}
	return os.Getenv("OPENROUTER_API_KEY")
}

// Load resolves the effective configuration: the file at path (if any), then
// the environment, then Defaults. The result is validated.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = *fileCfg
	}

	fileKey := cfg.APIKey
	cfg = cfg.MergeWithDefaults(FromEnv())
	cfg = cfg.MergeWithDefaults(Defaults())
	if fileKey == "" {
		// the file may choose a different provider than LLM_PROVIDER
		cfg.APIKey = APIKeyFromEnv(cfg.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required values such as the API key are checked by the command that needs them.
func (c *Config) Validate() error {
	switch c.Provider {
	case "", "openrouter", "gemini":
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}

	switch c.CacheBackend {
	case "", CacheMemory, CacheNone:
	case CacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: 'redis_url' is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("config error: unknown cache backend %q", c.CacheBackend)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	for name, v := range map[string]int{
		"cache_ttl_seconds":          c.CacheTTLSeconds,
		"cache_sweep_threshold":      c.CacheSweepThreshold,
		"quick_timeout_seconds":      c.QuickTimeoutSeconds,
		"generation_timeout_seconds": c.GenerationTimeoutSeconds,
		"generation_max_tokens":      c.GenerationMaxTokens,
	} {
		if v < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", name)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.CacheBackend == "" {
		result.CacheBackend = defaults.CacheBackend
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.LogMode == "" {
		result.LogMode = defaults.LogMode
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.CacheTTLSeconds == 0 {
		result.CacheTTLSeconds = defaults.CacheTTLSeconds
	}
	if result.CacheSweepThreshold == 0 {
		result.CacheSweepThreshold = defaults.CacheSweepThreshold
	}
	if result.QuickTimeoutSeconds == 0 {
		result.QuickTimeoutSeconds = defaults.QuickTimeoutSeconds
	}
	if result.GenerationTimeoutSeconds == 0 {
		result.GenerationTimeoutSeconds = defaults.GenerationTimeoutSeconds
	}
	if result.GenerationMaxTokens == 0 {
		result.GenerationMaxTokens = defaults.GenerationMaxTokens
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// CacheTTL returns the cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// QuickTimeout bounds resume analysis and domain recommendation calls.
func (c *Config) QuickTimeout() time.Duration {
	return time.Duration(c.QuickTimeoutSeconds) * time.Second
}

// GenerationTimeout bounds one roadmap generation call.
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.GenerationTimeoutSeconds) * time.Second
}

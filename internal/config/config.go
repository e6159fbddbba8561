// Package config loads the seosuite API configuration from per-environment
// YAML files with ${VAR} environment expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the seosuite API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Cache      CacheConfig      `yaml:"cache"`
	LLM        LLMConfig        `yaml:"llm"`
	Providers  ProvidersConfig  `yaml:"providers"`
	Plagiarism PlagiarismConfig `yaml:"plagiarism"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds Redis response-cache settings.
// Empty addrs disables caching entirely.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// LLMConfig holds generative model settings (OpenAI-compatible endpoint).
type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// ProvidersConfig holds SEO data provider credentials.
type ProvidersConfig struct {
	DataForSEO DataForSEOConfig `yaml:"dataforseo"`
	SerpAPI    SerpAPIConfig    `yaml:"serpapi"`
	ValueSERP  ValueSERPConfig  `yaml:"valueserp"`
}

// DataForSEOConfig holds DataForSEO Basic auth credentials.
type DataForSEOConfig struct {
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
}

// SerpAPIConfig holds the SerpAPI key.
type SerpAPIConfig struct {
	APIKey string `yaml:"api_key"`
}

// ValueSERPConfig holds the ValueSERP key.
type ValueSERPConfig struct {
	APIKey string `yaml:"api_key"`
}

// PlagiarismConfig holds uniqueness-check settings.
type PlagiarismConfig struct {
	CorpusDir           string  `yaml:"corpus_dir"`
	UniquenessThreshold float64 `yaml:"uniqueness_threshold"`
	MatchThreshold      float64 `yaml:"match_threshold"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HasLLM reports whether the generative model is configured.
func (c *Config) HasLLM() bool {
	return c.LLM.APIKey != "" && c.LLM.Model != ""
}

// HasDataForSEO reports whether DataForSEO credentials are configured.
func (c *Config) HasDataForSEO() bool {
	return c.Providers.DataForSEO.Login != "" && c.Providers.DataForSEO.Password != ""
}

// HasSERPProvider reports whether any SERP API is configured.
func (c *Config) HasSERPProvider() bool {
	return c.Providers.SerpAPI.APIKey != "" || c.Providers.ValueSERP.APIKey != ""
}

// HasCache reports whether the response cache is configured.
func (c *Config) HasCache() bool {
	return len(c.Cache.Addrs) > 0
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
		c.HTTP.ReadTimeoutSec = 15
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Content generation calls an LLM synchronously; allow slow responses.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 1800 // 30 minutes
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "seosuite:"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.3
	}
	if c.Plagiarism.UniquenessThreshold <= 0 {
		c.Plagiarism.UniquenessThreshold = 0.8
	}
	if c.Plagiarism.MatchThreshold <= 0 {
		c.Plagiarism.MatchThreshold = 0.3
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Plagiarism.UniquenessThreshold > 1 {
		return fmt.Errorf("plagiarism.uniqueness_threshold must be in (0,1], got %v",
			c.Plagiarism.UniquenessThreshold)
	}
	if c.Plagiarism.MatchThreshold > 1 {
		return fmt.Errorf("plagiarism.match_threshold must be in (0,1], got %v",
			c.Plagiarism.MatchThreshold)
	}
	if c.Providers.DataForSEO.Login != "" && c.Providers.DataForSEO.Password == "" {
		return fmt.Errorf("providers.dataforseo.password is required when login is set")
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

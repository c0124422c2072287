// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the top-level application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	LLM        LLMConfig        `yaml:"llm"`
	Generation GenerationConfig `yaml:"generation"`
	History    HistoryConfig    `yaml:"history"`
	Tracing    TracingConfig    `yaml:"tracing"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines where generation history is stored.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // sqlite, postgres
	Path     string `yaml:"path"`   // sqlite file, ":memory:" for tests
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// LLMConfig defines LLM backend settings.
type LLMConfig struct {
	Backend     string          `yaml:"backend"` // ollama
	Ollama      OllamaConfig    `yaml:"ollama"`
	Temperature *float64        `yaml:"temperature"`
	MaxTokens   int             `yaml:"max_tokens"`
	Timeout     time.Duration   `yaml:"timeout"`
	Stop        []string        `yaml:"stop"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// OllamaConfig defines Ollama-specific settings.
type OllamaConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// RateLimitConfig throttles LLM calls. Zero values disable the limits.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// GenerationConfig defines repair and caching behavior.
type GenerationConfig struct {
	MaxRetries      *int          `yaml:"max_retries"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	CacheSize       int           `yaml:"cache_size"`
	DefaultLanguage string        `yaml:"default_language"` // ru, en
	DefaultPlatform string        `yaml:"default_platform"`
}

// HistoryConfig defines retention of stored generations.
type HistoryConfig struct {
	KeepPerUser   int           `yaml:"keep_per_user"`
	MaxAge        time.Duration `yaml:"max_age"`
	PruneInterval time.Duration `yaml:"prune_interval"`
}

// TracingConfig defines OpenTelemetry trace export.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyLLMDefaults(&cfg.LLM)
	applyGenerationDefaults(&cfg.Generation)
	applyHistoryDefaults(&cfg.History)
	applyTracingDefaults(&cfg.Tracing)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		// Streamed generations can take several model calls.
		s.WriteTimeout = 5 * time.Minute
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Driver == "" {
		d.Driver = DriverSQLite
	}
	if d.Path == "" {
		d.Path = "data/cardsmith.db"
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyLLMDefaults(l *LLMConfig) {
	if l.Backend == "" {
		l.Backend = "ollama"
	}
	if l.Ollama.Endpoint == "" {
		l.Ollama.Endpoint = "http://localhost:11434"
	}
	if l.Ollama.Model == "" {
		l.Ollama.Model = "phi3:mini"
	}
	if l.Temperature == nil {
		t := 0.6
		l.Temperature = &t
	}
	if l.MaxTokens == 0 {
		l.MaxTokens = 800
	}
	if l.Timeout == 0 {
		l.Timeout = 120 * time.Second
	}
	if l.Stop == nil {
		l.Stop = []string{"\n\n"}
	}
}

func applyGenerationDefaults(g *GenerationConfig) {
	if g.MaxRetries == nil {
		n := 2
		g.MaxRetries = &n
	}
	if g.RetryDelay == 0 {
		g.RetryDelay = time.Second
	}
	if g.CacheTTL == 0 {
		g.CacheTTL = 10 * time.Minute
	}
	if g.CacheSize == 0 {
		g.CacheSize = 256
	}
	if g.DefaultLanguage == "" {
		g.DefaultLanguage = "ru"
	}
	if g.DefaultPlatform == "" {
		g.DefaultPlatform = "ozon"
	}
}

func applyHistoryDefaults(h *HistoryConfig) {
	if h.KeepPerUser == 0 {
		h.KeepPerUser = 20
	}
	if h.MaxAge == 0 {
		h.MaxAge = 30 * 24 * time.Hour
	}
	if h.PruneInterval == 0 {
		h.PruneInterval = time.Hour
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.Endpoint == "" {
		t.Endpoint = "localhost:4317"
	}
	if t.ServiceName == "" {
		t.ServiceName = "cardsmith"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1.0
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	switch cfg.Database.Driver {
	case DriverSQLite:
		// Path always has a default.
	case DriverPostgres:
		if cfg.Database.Host == "" {
			errs = append(errs, errors.New("database.host is required when driver is postgres"))
		}
		if cfg.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required when driver is postgres"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, errors.New("database.user is required when driver is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"database.driver must be one of: sqlite, postgres (got %q)",
			cfg.Database.Driver,
		))
	}

	if cfg.LLM.Backend != "ollama" {
		errs = append(errs, fmt.Errorf("llm.backend must be ollama (got %q)", cfg.LLM.Backend))
	}
	if u, err := url.Parse(cfg.LLM.Ollama.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("llm.ollama.endpoint must be an http(s) URL (got %q)", cfg.LLM.Ollama.Endpoint))
	}
	if t := *cfg.LLM.Temperature; t < 0 || t > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be within [0, 2] (got %g)", t))
	}
	if cfg.LLM.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("llm.max_tokens must be positive (got %d)", cfg.LLM.MaxTokens))
	}
	if cfg.LLM.RateLimit.PerSecond < 0 {
		errs = append(errs, errors.New("llm.rate_limit.per_second must not be negative"))
	}

	if *cfg.Generation.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("generation.max_retries must not be negative (got %d)", *cfg.Generation.MaxRetries))
	}
	if cfg.Generation.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("generation.cache_size must be positive (got %d)", cfg.Generation.CacheSize))
	}
	switch cfg.Generation.DefaultLanguage {
	case "ru", "en":
	default:
		errs = append(errs, fmt.Errorf(
			"generation.default_language must be one of: ru, en (got %q)",
			cfg.Generation.DefaultLanguage,
		))
	}

	if cfg.History.KeepPerUser < 0 {
		errs = append(errs, fmt.Errorf("history.keep_per_user must not be negative (got %d)", cfg.History.KeepPerUser))
	}
	if r := cfg.Tracing.SampleRatio; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_ratio must be within [0, 1] (got %g)", r))
	}

	return errors.Join(errs...)
}

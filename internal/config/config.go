package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"newsingest/domain"
	"newsingest/internal/helper"
)

var (
	ErrNoSources          = errors.New("at least one enabled source is required")
	ErrSourceMissingName  = errors.New("source name is required")
	ErrSourceBadKind      = errors.New("source kind must be 'html' or 'rss'")
	ErrInvalidMaxAttempts = errors.New("FETCH_MAX_ATTEMPTS must be at least 1")
	ErrInvalidTimeout     = errors.New("FETCH_TIMEOUT must be positive")
	ErrInvalidBackoff     = errors.New("FETCH_BASE_BACKOFF must be positive")
	ErrInvalidWorkers     = errors.New("INGEST_WORKERS must be at least 1")
	ErrInvalidStoreDriver = errors.New("STORE_DRIVER must be 'postgres' or 'memory'")
	ErrInvalidLogLevel    = errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Workers     int
	LatestLimit int
	LogLevel    string
	StoreDriver string

	UserAgent   string
	Timeout     time.Duration
	MaxAttempts int
	BaseBackoff time.Duration

	PGHost     string
	PGPort     int
	PGUser     string
	PGPassword string
	PGDatabase string

	RedisAddr  string
	RedisQueue string

	SourcesFile string
	Sources     []SourceConfig
}

// SourceConfig is one entry of the sources YAML file.
type SourceConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Kind    string `yaml:"kind"`
	Enabled *bool  `yaml:"enabled"`
}

type sourcesFile struct {
	Sources []SourceConfig `yaml:"sources"`
}

// DefaultSources are used when no SOURCES_FILE is configured.
var DefaultSources = []SourceConfig{
	{Name: "Skift", URL: "https://skift.com/news/", Kind: string(domain.KindHTML)},
	{Name: "Phocuswire", URL: "https://www.phocuswire.com/RSS/All-News", Kind: string(domain.KindRSS)},
}

// Load reads .env (if present), the environment and the sources file, then
// validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Workers:     parseIntEnv("INGEST_WORKERS", 2),
		LatestLimit: parseIntEnv("LATEST_LIMIT", 20),
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", StorePostgres)),
		UserAgent:   getenv("FETCH_USER_AGENT", ""),
		Timeout:     parseDurationEnv("FETCH_TIMEOUT", 10*time.Second),
		MaxAttempts: parseIntEnv("FETCH_MAX_ATTEMPTS", 3),
		BaseBackoff: parseDurationEnv("FETCH_BASE_BACKOFF", time.Second),
		PGHost:      getenv("POSTGRES_HOST", "localhost"),
		PGPort:      parseIntEnv("POSTGRES_PORT", 5432),
		PGUser:      getenv("POSTGRES_USER", "postgres"),
		PGPassword:  getenv("POSTGRES_PASSWORD", "changeme"),
		PGDatabase:  getenv("POSTGRES_DBNAME", "newsingest"),
		RedisAddr:   getenv("REDIS_ADDR", ""),
		RedisQueue:  getenv("REDIS_QUEUE", "articles:new"),
		SourcesFile: getenv("SOURCES_FILE", ""),
		Sources:     DefaultSources,
	}

	if cfg.SourcesFile != "" {
		sources, err := LoadSources(cfg.SourcesFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Sources = sources
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadSources reads the sources list from a YAML file.
func LoadSources(path string) ([]SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	var f sourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse sources YAML: %w", err)
	}
	return f.Sources, nil
}

func (c *Config) Validate() error {
	enabled := 0
	for i, s := range c.Sources {
		if !s.IsEnabled() {
			continue
		}
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingName, i)
		}
		if err := helper.IsValidURL(s.URL); err != nil {
			return fmt.Errorf("source[%d] %s: %w", i, s.Name, err)
		}
		switch domain.ExtractorKind(strings.ToLower(s.Kind)) {
		case domain.KindHTML, domain.KindRSS:
		default:
			return fmt.Errorf("%w: source[%d] %s has %q", ErrSourceBadKind, i, s.Name, s.Kind)
		}
		enabled++
	}
	if enabled == 0 {
		return ErrNoSources
	}

	if c.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BaseBackoff <= 0 {
		return ErrInvalidBackoff
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.StoreDriver != StorePostgres && c.StoreDriver != StoreMemory {
		return ErrInvalidStoreDriver
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}

// IsEnabled treats a missing enabled flag as true.
func (s SourceConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// EnabledSources returns the enabled sources as domain values.
func (c *Config) EnabledSources() []domain.Source {
	var out []domain.Source
	for _, s := range c.Sources {
		if !s.IsEnabled() {
			continue
		}
		out = append(out, domain.Source{
			Name: strings.TrimSpace(s.Name),
			URL:  strings.TrimSpace(s.URL),
			Kind: domain.ExtractorKind(strings.ToLower(s.Kind)),
		})
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// Package config loads feedfilter service configuration from a yaml file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/feedfilter/internal/domain"
)

// Default configuration values.
const (
	defaultServiceName     = "feedfilter"
	defaultServiceVersion  = "1.0.0"
	defaultServicePort     = 8090
	defaultConcurrency     = 10
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultStorageBackend  = "sqlite"
	defaultSQLitePath      = "feedfilter.db"
	defaultSensitivity     = "medium"
	defaultRemoteTimeout   = 30 * time.Second
	defaultRemoteRPS       = 2
	defaultProfileDebounce = 2 * time.Minute
	defaultRecentFeedback  = 20
)

// Config holds all configuration for the feedfilter service.
type Config struct {
	Service        ServiceConfig        `yaml:"service"`
	Storage        StorageConfig        `yaml:"storage"`
	Logging        LoggingConfig        `yaml:"logging"`
	Classification ClassificationConfig `yaml:"classification"`
	Remote         RemoteConfig         `yaml:"remote"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Port        int    `yaml:"port"`
	Debug       bool   `yaml:"debug"`
	Concurrency int    `yaml:"concurrency"`
}

// StorageConfig selects the learning store backend.
// Backend is one of "memory", "sqlite", "postgres".
type StorageConfig struct {
	Backend    string `yaml:"backend"`
	SQLitePath string `yaml:"sqlite_path"`
	DSN        string `yaml:"dsn"` // postgres connection string
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CategorySetting configures one category in the config file.
type CategorySetting struct {
	Enabled     bool   `yaml:"enabled"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

// ClassificationConfig holds the default classification settings used
// when a request does not carry its own.
type ClassificationConfig struct {
	Sensitivity string                     `yaml:"sensitivity"`
	Categories  map[string]CategorySetting `yaml:"categories"`
}

// RemoteConfig holds rich classifier settings. An empty URL disables the
// remote path entirely; the local engine then serves every request.
type RemoteConfig struct {
	URL             string        `yaml:"url"`
	Timeout         time.Duration `yaml:"timeout"`
	RPS             int           `yaml:"rps"`
	ProfileDebounce time.Duration `yaml:"profile_debounce"`
	RecentFeedback  int           `yaml:"recent_feedback"`
}

// Load reads configuration from path, falling back to defaults when the
// file is absent. Environment variables override file values. A .env
// file in the working directory is honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.normalize()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        defaultServiceName,
			Version:     defaultServiceVersion,
			Port:        defaultServicePort,
			Concurrency: defaultConcurrency,
		},
		Storage: StorageConfig{
			Backend:    defaultStorageBackend,
			SQLitePath: defaultSQLitePath,
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Classification: ClassificationConfig{
			Sensitivity: defaultSensitivity,
		},
		Remote: RemoteConfig{
			Timeout:         defaultRemoteTimeout,
			RPS:             defaultRemoteRPS,
			ProfileDebounce: defaultProfileDebounce,
			RecentFeedback:  defaultRecentFeedback,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FEEDFILTER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Service.Port = port
		}
	}
	if v := os.Getenv("APP_DEBUG"); v != "" {
		cfg.Service.Debug = v == "true"
	}
	if v := os.Getenv("FEEDFILTER_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Service.Concurrency = n
		}
	}
	if v := os.Getenv("FEEDFILTER_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("FEEDFILTER_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("FEEDFILTER_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("FEEDFILTER_REMOTE_URL"); v != "" {
		cfg.Remote.URL = v
	}
}

// normalize repairs out-of-range values after load.
func (c *Config) normalize() {
	if c.Service.Port <= 0 {
		c.Service.Port = defaultServicePort
	}
	if c.Service.Concurrency <= 0 {
		c.Service.Concurrency = defaultConcurrency
	}
	// Unknown sensitivity degrades to medium at the boundary, so the
	// engine never sees an invalid level.
	c.Classification.Sensitivity = string(domain.ParseSensitivity(c.Classification.Sensitivity))
}

// Settings converts the configured defaults to the engine settings shape.
func (c *Config) Settings() domain.Settings {
	categories := make(map[string]domain.CategoryConfig, len(c.Classification.Categories))
	for id, cat := range c.Classification.Categories {
		categories[id] = domain.CategoryConfig{
			Enabled:     cat.Enabled,
			Label:       cat.Label,
			Description: cat.Description,
		}
	}
	return domain.Settings{
		Categories:  categories,
		Sensitivity: domain.ParseSensitivity(c.Classification.Sensitivity),
	}
}

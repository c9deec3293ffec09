package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/soltixdb/roomsense/internal/analytics"
)

// Analysis parameter bounds exposed to dashboard users
const (
	MinAnomalyThreshold = 1.5
	MaxAnomalyThreshold = 3.5
	MinTrendWindow      = 3
	MaxTrendWindow      = 15
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Dataset  DatasetConfig  `mapstructure:"dataset"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address for server (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// CacheConfig represents the analysis result cache
type CacheConfig struct {
	Type        string        `mapstructure:"type"`        // memory (default), redis, none
	URL         string        `mapstructure:"url"`         // Redis URL (e.g., redis://localhost:6379)
	Password    string        `mapstructure:"password"`    // Optional authentication
	DB          int           `mapstructure:"db"`          // Redis database number (default: 0)
	Prefix      string        `mapstructure:"prefix"`      // Key prefix (default: "roomsense")
	TTL         time.Duration `mapstructure:"ttl"`         // Entry lifetime
	MaxEntries  int           `mapstructure:"max_entries"` // Memory cache bound; oldest writes are evicted
	Compression string        `mapstructure:"compression"` // none, snappy
}

// AnalysisConfig holds the dashboard defaults used when a request omits a parameter
type AnalysisConfig struct {
	DefaultSensor    string   `mapstructure:"default_sensor"`
	AnomalyThreshold float64  `mapstructure:"anomaly_threshold"`
	TrendWindow      int      `mapstructure:"trend_window"`
	SelectedDays     []string `mapstructure:"selected_days"`
	MaxWorkers       int      `mapstructure:"max_workers"` // Concurrent per-sensor aggregations
}

// DatasetConfig controls the simulated sensor dataset
type DatasetConfig struct {
	Seed int64 `mapstructure:"seed"`
	// RefreshSchedule is a cron expression; the dataset is regenerated with
	// the next seed on every tick. Empty disables refreshing.
	RefreshSchedule string `mapstructure:"refresh_schedule"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, UnixMs, etc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if err := c.Dataset.Validate(); err != nil {
		return fmt.Errorf("dataset config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}
	return nil
}

// Validate validates authentication configuration
func (c *AuthConfig) Validate() error {
	if c.Enabled && len(c.APIKeys) == 0 {
		return fmt.Errorf("auth.api_keys is required when auth is enabled")
	}
	return nil
}

// Validate validates cache configuration
func (c *CacheConfig) Validate() error {
	switch strings.ToLower(c.Type) {
	case "", "memory", "none":
	case "redis":
		if c.URL == "" {
			return fmt.Errorf("cache.url is required for redis cache")
		}
	default:
		return fmt.Errorf("cache.type must be one of: memory, redis, none")
	}

	if c.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}

	if c.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative")
	}

	switch strings.ToLower(c.Compression) {
	case "", "none", "snappy":
	default:
		return fmt.Errorf("cache.compression must be 'none' or 'snappy'")
	}

	return nil
}

// Validate validates analysis defaults against the dashboard bounds
func (c *AnalysisConfig) Validate() error {
	if _, err := analytics.ParseSensor(c.DefaultSensor); err != nil {
		return fmt.Errorf("analysis.default_sensor: %w", err)
	}

	if c.AnomalyThreshold < MinAnomalyThreshold || c.AnomalyThreshold > MaxAnomalyThreshold {
		return fmt.Errorf("analysis.anomaly_threshold must be between %.1f and %.1f",
			MinAnomalyThreshold, MaxAnomalyThreshold)
	}

	if c.TrendWindow < MinTrendWindow || c.TrendWindow > MaxTrendWindow {
		return fmt.Errorf("analysis.trend_window must be between %d and %d", MinTrendWindow, MaxTrendWindow)
	}

	days, err := analytics.ParseDays(c.SelectedDays)
	if err != nil {
		return fmt.Errorf("analysis.selected_days: %w", err)
	}
	if len(days) == 0 {
		return fmt.Errorf("analysis.selected_days must name at least one day")
	}

	if c.MaxWorkers < 1 {
		return fmt.Errorf("analysis.max_workers must be at least 1")
	}

	return nil
}

// Validate validates dataset configuration
func (c *DatasetConfig) Validate() error {
	if c.RefreshSchedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
		return fmt.Errorf("dataset.refresh_schedule: %w", err)
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}

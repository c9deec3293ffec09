package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")              // Current directory
		v.AddConfigPath("./configs")      // Project configs directory
		v.AddConfigPath("./config")       // Alternative config directory
		v.AddConfigPath("/etc/roomsense") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides (ROOMSENSE_SERVER_HTTP_PORT, ...)
	v.SetEnvPrefix("ROOMSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)

	// Auth defaults
	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.api_keys", d.Auth.APIKeys)

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)

	// Cache defaults
	v.SetDefault("cache.type", d.Cache.Type)
	v.SetDefault("cache.url", d.Cache.URL)
	v.SetDefault("cache.password", d.Cache.Password)
	v.SetDefault("cache.db", d.Cache.DB)
	v.SetDefault("cache.prefix", d.Cache.Prefix)
	v.SetDefault("cache.ttl", d.Cache.TTL.String())
	v.SetDefault("cache.max_entries", d.Cache.MaxEntries)
	v.SetDefault("cache.compression", d.Cache.Compression)

	// Analysis defaults
	v.SetDefault("analysis.default_sensor", d.Analysis.DefaultSensor)
	v.SetDefault("analysis.anomaly_threshold", d.Analysis.AnomalyThreshold)
	v.SetDefault("analysis.trend_window", d.Analysis.TrendWindow)
	v.SetDefault("analysis.selected_days", d.Analysis.SelectedDays)
	v.SetDefault("analysis.max_workers", d.Analysis.MaxWorkers)

	// Dataset defaults
	v.SetDefault("dataset.seed", d.Dataset.Seed)
	v.SetDefault("dataset.refresh_schedule", d.Dataset.RefreshSchedule)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 5555,
		},
		Auth: AuthConfig{
			Enabled: false,
			APIKeys: []string{},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			TimeFormat: "RFC3339",
		},
		Cache: CacheConfig{
			Type:        "memory",
			Prefix:      "roomsense",
			TTL:         10 * time.Minute,
			MaxEntries:  256,
			Compression: "snappy",
		},
		Analysis: AnalysisConfig{
			DefaultSensor:    "Temperature",
			AnomalyThreshold: 2.5,
			TrendWindow:      5,
			SelectedDays:     []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
			MaxWorkers:       4,
		},
		Dataset: DatasetConfig{
			Seed: 1,
		},
	}
}

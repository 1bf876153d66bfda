package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Storage backend identifiers
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Session SessionConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// StorageConfig selects and configures the blob store backend
type StorageConfig struct {
	Backend     string // file or postgres
	DataDir     string // file backend: directory holding one JSON file per key
	DatabaseURL string // postgres backend
}

// SessionConfig holds step-session tuning
type SessionConfig struct {
	SampleRateHz   int  // requested accelerometer sample rate
	SimulateSensor bool // generate a synthetic walking signal instead of requiring pushed samples
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.datadir", "./data")

	v.SetDefault("session.sampleratehz", 60)
	v.SetDefault("session.simulatesensor", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	v.BindEnv("storage.backend", "STORAGE_BACKEND")
	v.BindEnv("storage.datadir", "STORAGE_DATA_DIR")
	v.BindEnv("storage.databaseurl", "DATABASE_URL")

	v.BindEnv("session.sampleratehz", "SESSION_SAMPLE_RATE_HZ")
	v.BindEnv("session.simulatesensor", "SESSION_SIMULATE_SENSOR")

	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("storage.datadir is required for the file backend")
		}
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("storage.databaseurl is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}

	if c.Session.SampleRateHz <= 0 {
		return fmt.Errorf("session.sampleratehz must be positive")
	}

	return nil
}

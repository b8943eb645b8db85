package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the concierge reports service.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig   `yaml:"redis"`
	Watcher  WatcherConfig `yaml:"watcher"`
	Ingest   IngestConfig  `yaml:"ingest"`
	Logging  LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection.
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// RedisConfig holds the optional progress-tracker backend.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	DB      int    `yaml:"db"`
}

// WatcherConfig holds the S3 drop-folder poller settings.
type WatcherConfig struct {
	Enabled         bool   `yaml:"enabled"`
	S3Bucket        string `yaml:"s3_bucket"`
	S3Region        string `yaml:"s3_region"`
	S3Prefix        string `yaml:"s3_prefix"`
	AWSProfile      string `yaml:"aws_profile"`
	IntervalMinutes int    `yaml:"interval_minutes"`
	OrgID           string `yaml:"org_id"`
}

// Interval returns the poll interval as a duration.
func (c WatcherConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// IngestConfig holds the organization-specific pipeline conventions. The
// agent roster, metric catalog, and thresholds are spreadsheet conventions
// of one concierge team, so they live in configuration rather than code.
type IngestConfig struct {
	KnownAgents           []string `yaml:"known_agents"`
	MetricCatalog         []string `yaml:"metric_catalog"`
	DropNames             []string `yaml:"drop_names"`
	BusinessHoursStart    int      `yaml:"business_hours_start"`
	BusinessHoursEnd      int      `yaml:"business_hours_end"`
	PhoneTimeMaxHours     float64  `yaml:"phone_time_max_hours"`
	MembersMax            int      `yaml:"members_max"`
	PersistTimeoutSeconds int      `yaml:"persist_timeout_seconds"`
}

// PersistTimeout returns the bounded timeout for persistence calls.
func (c IngestConfig) PersistTimeout() time.Duration {
	return time.Duration(c.PersistTimeoutSeconds) * time.Second
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Watcher.IntervalMinutes == 0 {
		cfg.Watcher.IntervalMinutes = 5
	}
	if cfg.Watcher.S3Region == "" {
		cfg.Watcher.S3Region = "us-east-1"
	}
	if cfg.Ingest.BusinessHoursStart == 0 && cfg.Ingest.BusinessHoursEnd == 0 {
		cfg.Ingest.BusinessHoursStart = 8
		cfg.Ingest.BusinessHoursEnd = 20
	}
	if cfg.Ingest.PhoneTimeMaxHours == 0 {
		cfg.Ingest.PhoneTimeMaxHours = 168
	}
	if cfg.Ingest.MembersMax == 0 {
		cfg.Ingest.MembersMax = 1000
	}
	if cfg.Ingest.PersistTimeoutSeconds == 0 {
		cfg.Ingest.PersistTimeoutSeconds = 30
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}
	if bucket := os.Getenv("REPORTS_S3_BUCKET"); bucket != "" {
		cfg.Watcher.S3Bucket = bucket
	}
	if region := os.Getenv("REPORTS_S3_REGION"); region != "" {
		cfg.Watcher.S3Region = region
	}
	if prefix := os.Getenv("REPORTS_S3_PREFIX"); prefix != "" {
		cfg.Watcher.S3Prefix = prefix
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr              string `yaml:"addr"`
		RateLimitRequests int    `yaml:"rate_limit_requests"`
		RateLimitWindow   int    `yaml:"rate_limit_window_seconds"`
	} `yaml:"server"`
	Storage struct {
		PostgresDSN string `yaml:"postgres_dsn"`
		SQLitePath  string `yaml:"sqlite_path"`
	} `yaml:"storage"`
	Cache struct {
		RedisAddr string `yaml:"redis_addr"`
	} `yaml:"cache"`
	Events struct {
		KafkaBrokers []string `yaml:"kafka_brokers"`
		Topic        string   `yaml:"topic"`
	} `yaml:"events"`
	Schedule struct {
		PurgeCron     string `yaml:"purge_cron"`
		ProgressCron  string `yaml:"progress_cron"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"schedule"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Events.KafkaBrokers = splitAndTrim(v)
	}
	if v := os.Getenv("EVENTS_TOPIC"); v != "" {
		cfg.Events.Topic = v
	}
	if v := os.Getenv("RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.RetentionDays = days
		}
	}
	if v := os.Getenv("CRON_PURGE"); v != "" {
		cfg.Schedule.PurgeCron = v
	}
	if v := os.Getenv("CRON_PROGRESS"); v != "" {
		cfg.Schedule.ProgressCron = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.RateLimitRequests == 0 {
		cfg.Server.RateLimitRequests = 5
	}
	if cfg.Server.RateLimitWindow == 0 {
		cfg.Server.RateLimitWindow = 60
	}
	if cfg.Events.Topic == "" {
		cfg.Events.Topic = "plan_generated"
	}
	if cfg.Schedule.PurgeCron == "" {
		cfg.Schedule.PurgeCron = "0 0 3 * * *"
	}
	if cfg.Schedule.ProgressCron == "" {
		cfg.Schedule.ProgressCron = "0 0 6 1 * *"
	}
	if cfg.Schedule.RetentionDays == 0 {
		cfg.Schedule.RetentionDays = 180
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.RateLimitRequests <= 0 {
		return fmt.Errorf("server.rate_limit_requests must be positive")
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window_seconds must be positive")
	}
	if c.Schedule.RetentionDays <= 0 {
		return fmt.Errorf("schedule.retention_days must be positive")
	}
	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

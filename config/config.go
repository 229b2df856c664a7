package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Auth       AuthConfig       `yaml:"auth"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Twitter    TwitterConfig    `yaml:"twitter"`
	Mail       MailConfig       `yaml:"mail"`
	Dispatcher DispatcherConfig `yaml:"dispatcher"`
	Cache      CacheConfig      `yaml:"cache"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// AuthConfig describes how caller identity reaches this service. The upstream
// auth proxy asserts identity via headers; admin policy is a single user id.
type AuthConfig struct {
	UserIDHeader    string `yaml:"user_id_header"`
	UserEmailHeader string `yaml:"user_email_header"`
	AdminUserID     string `yaml:"admin_user_id"`
	CronSecret      string `yaml:"cron_secret"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// RedisConfig holds the connection settings for the shared cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// TwitterConfig holds the settings for the Twitter API client.
type TwitterConfig struct {
	BearerToken    string `yaml:"bearer_token"`
	BaseURL        string `yaml:"base_url"`
	HTTPProxy      string `yaml:"http_proxy"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	HostUsername   string `yaml:"host_username"`
}

// MailConfig holds the SMTP transport settings.
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// DispatcherConfig holds the reminder dispatcher settings.
type DispatcherConfig struct {
	Enabled          bool `yaml:"enabled"`
	IntervalSeconds  int  `yaml:"interval_seconds"`
	LookaheadMinutes int  `yaml:"lookahead_minutes"`
	TimeoutSeconds   int  `yaml:"timeout_seconds"`
	Workers          int  `yaml:"workers"`
}

// CacheConfig holds the logical TTLs for cached space data. The stale
// retention bounds how long an expired entry stays usable as a fallback.
type CacheConfig struct {
	SpaceTTLSeconds     int `yaml:"space_ttl_seconds"`
	ListTTLSeconds      int `yaml:"list_ttl_seconds"`
	UserTTLHours        int `yaml:"user_ttl_hours"`
	StaleRetentionHours int `yaml:"stale_retention_hours"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Auth.UserIDHeader == "" {
		cfg.Auth.UserIDHeader = "X-User-ID"
	}
	if cfg.Auth.UserEmailHeader == "" {
		cfg.Auth.UserEmailHeader = "X-User-Email"
	}

	if cfg.Twitter.BaseURL == "" {
		cfg.Twitter.BaseURL = "https://api.twitter.com"
	}
	if cfg.Twitter.TimeoutSeconds <= 0 {
		cfg.Twitter.TimeoutSeconds = 30
	}

	if cfg.Dispatcher.IntervalSeconds <= 0 {
		cfg.Dispatcher.IntervalSeconds = 300
	}
	if cfg.Dispatcher.LookaheadMinutes <= 0 {
		cfg.Dispatcher.LookaheadMinutes = 30
	}
	if cfg.Dispatcher.TimeoutSeconds <= 0 {
		cfg.Dispatcher.TimeoutSeconds = 60
	}
	if cfg.Dispatcher.Workers <= 0 {
		log.Printf("dispatcher.workers is not set or invalid; defaulting to 1")
		cfg.Dispatcher.Workers = 1
	}

	if cfg.Cache.SpaceTTLSeconds <= 0 {
		cfg.Cache.SpaceTTLSeconds = 5 * 60
	}
	if cfg.Cache.ListTTLSeconds <= 0 {
		cfg.Cache.ListTTLSeconds = 15 * 60
	}
	if cfg.Cache.UserTTLHours <= 0 {
		cfg.Cache.UserTTLHours = 24
	}
	if cfg.Cache.StaleRetentionHours <= 0 {
		cfg.Cache.StaleRetentionHours = 24
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN must be set")
	}
	if c.Auth.AdminUserID == "" {
		return fmt.Errorf("auth.admin_user_id must be set")
	}
	if c.Auth.CronSecret == "" {
		return fmt.Errorf("auth.cron_secret must be set")
	}
	return nil
}

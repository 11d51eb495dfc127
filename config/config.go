package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        LogConfig        `mapstructure:"log"`
	App        AppConfig        `mapstructure:"app"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Lifecycle  LifecycleConfig  `mapstructure:"lifecycle"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port      int        `mapstructure:"port"`
	BaseURL   string     `mapstructure:"base_url"`
	BodyLimit int64      `mapstructure:"body_limit"` // bytes
	CORS      CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin settings.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig selects and configures the store.
// Driver "sqlite" uses Path; driver "postgres" uses the host fields.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"`
	BusyTimeoutMS   int    `mapstructure:"busy_timeout_ms"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
}

// DSN builds the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverPostgres {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
		)
	}
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on", c.Path, c.BusyTimeoutMS)
}

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// RedisConfig backs the rate limiter. Disabled means no limiting.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AppConfig domain-wide settings.
type AppConfig struct {
	// Timezone is used to combine traffic date and time into occurred_at.
	Timezone string `mapstructure:"timezone"`
}

// Location resolves Timezone. Validate guarantees it loads.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PageSizeLimit is the largest page size any list accepts.
const PageSizeLimit = 500

// PaginationConfig list page defaults.
type PaginationConfig struct {
	DefaultPer       int  `mapstructure:"default_per"`
	MaxPer           int  `mapstructure:"max_per"`
	IncludeEmptyDays bool `mapstructure:"include_empty_days"`
}

// LifecycleConfig soft-delete / archive behaviour.
type LifecycleConfig struct {
	RetryAttempts       int           `mapstructure:"retry_attempts"`
	RetryBackoff        time.Duration `mapstructure:"retry_backoff"`
	AutoArchiveEnabled  bool          `mapstructure:"auto_archive_enabled"`
	AutoArchiveAfter    time.Duration `mapstructure:"auto_archive_after"`
	AutoArchiveInterval time.Duration `mapstructure:"auto_archive_interval"`
}

// RateLimitConfig fixed window limit on mutating routes.
type RateLimitConfig struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

// Load reads configuration from file and environment.
// Priority: env > file > defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{})

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "harbor.db")
	v.SetDefault("db.busy_timeout_ms", 5000)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "harbor")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("app.timezone", "UTC")

	v.SetDefault("pagination.default_per", 25)
	v.SetDefault("pagination.max_per", PageSizeLimit)
	v.SetDefault("pagination.include_empty_days", true)

	v.SetDefault("lifecycle.retry_attempts", 3)
	v.SetDefault("lifecycle.retry_backoff", "50ms")
	v.SetDefault("lifecycle.auto_archive_enabled", true)
	v.SetDefault("lifecycle.auto_archive_after", "48h")
	v.SetDefault("lifecycle.auto_archive_interval", "5m")

	v.SetDefault("rate_limit.limit", 60)
	v.SetDefault("rate_limit.window", "1m")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("HARBOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be within 1-65535")
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("invalid config: db.path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("invalid config: db.host and db.name are required for postgres")
		}
	default:
		return fmt.Errorf("invalid config: unsupported db.driver %q", c.Database.Driver)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid config: app.timezone %q: %w", c.App.Timezone, err)
	}
	if c.Lifecycle.RetryAttempts < 1 {
		return fmt.Errorf("invalid config: lifecycle.retry_attempts must be at least 1")
	}
	if c.Lifecycle.RetryBackoff < 0 {
		return fmt.Errorf("invalid config: lifecycle.retry_backoff must not be negative")
	}
	if c.Lifecycle.AutoArchiveEnabled && c.Lifecycle.AutoArchiveInterval <= 0 {
		return fmt.Errorf("invalid config: lifecycle.auto_archive_interval must be positive")
	}
	if c.Pagination.MaxPer < 1 || c.Pagination.MaxPer > PageSizeLimit {
		return fmt.Errorf("invalid config: pagination.max_per must be within 1-%d", PageSizeLimit)
	}
	if c.Pagination.DefaultPer < 1 || c.Pagination.DefaultPer > c.Pagination.MaxPer {
		return fmt.Errorf("invalid config: pagination.default_per must be within 1-%d", c.Pagination.MaxPer)
	}
	return nil
}

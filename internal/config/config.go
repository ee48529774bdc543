// Package config loads service configuration.
//
// Values are layered: struct defaults, then an optional YAML file
// (CONFIG_PATH, config.yaml or config.yml), then environment variables.
// Callers load a .env file into the environment before calling Load.
package config

import (
	"fmt"
	"time"

	"sighting-intake-service/internal/validation"
)

// Store drivers.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverBadger   = "badger"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	PublicDir         string        `koanf:"public_dir"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	MaxBodyBytes      int64         `koanf:"max_body_bytes" validate:"min=1"`
}

// Addr is the listen address for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StoreConfig struct {
	Driver        string `koanf:"driver" validate:"oneof=file sqlite postgres redis badger"`
	FilePath      string `koanf:"file_path"`
	SQLitePath    string `koanf:"sqlite_path"`
	DatabaseURL   string `koanf:"database_url"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db" validate:"min=0"`
	RedisKey      string `koanf:"redis_key"`
	BadgerDir     string `koanf:"badger_dir"`
}

type SecurityConfig struct {
	CookieSecret      string        `koanf:"cookie_secret" validate:"required"`
	SessionCookieName string        `koanf:"session_cookie_name" validate:"required"`
	SessionTTL        time.Duration `koanf:"session_ttl"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks field rules and the cross-field requirements of the chosen driver.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.Store.validateDriver(); err != nil {
		return err
	}

	if c.Security.RateLimitRequests > 0 && c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive when rate limiting is enabled")
	}

	return nil
}

// Validate checks the store section on its own.
func (s *StoreConfig) Validate() error {
	if err := validation.ValidateStruct(s); err != nil {
		return err
	}
	return s.validateDriver()
}

func (s *StoreConfig) validateDriver() error {
	switch s.Driver {
	case DriverFile:
		if s.FilePath == "" {
			return fmt.Errorf("store.file_path is required for the %s driver", DriverFile)
		}
	case DriverSQLite:
		if s.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the %s driver", DriverSQLite)
		}
	case DriverPostgres:
		if s.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	case DriverRedis:
		if s.RedisAddr == "" || s.RedisKey == "" {
			return fmt.Errorf("store.redis_addr and store.redis_key are required for the %s driver", DriverRedis)
		}
	case DriverBadger:
		if s.BadgerDir == "" {
			return fmt.Errorf("store.badger_dir is required for the %s driver", DriverBadger)
		}
	}
	return nil
}

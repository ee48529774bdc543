package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "",
			Port:              8080,
			PublicDir:         "public",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			MaxBodyBytes:      10 << 20,
		},
		Store: StoreConfig{
			Driver:     DriverFile,
			FilePath:   "public/requests.json",
			SQLitePath: "data/sightings.db",
			RedisAddr:  "localhost:6379",
			RedisKey:   "sightings",
			BadgerDir:  "data/badger",
		},
		Security: SecurityConfig{
			SessionCookieName: "echo-session",
			SessionTTL:        24 * time.Hour,
			CORSOrigins:       []string{"http://localhost:8081"},
			RateLimitRequests: 0,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, config file and environment, then validates it.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: validate: %w", err)
	}

	return cfg, nil
}

// LoadStore loads the same layers as Load but validates only the store
// section, for tools that never serve HTTP.
func LoadStore() (*StoreConfig, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Store.Validate(); err != nil {
		return nil, fmt.Errorf("load config: validate: %w", err)
	}

	return &cfg.Store, nil
}

func load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load config: defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config: file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load config: environment: %w", err)
	}

	if err := splitListField(k, "security.cors_origins"); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("load config: unmarshal: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"host":                "server.host",
	"port":                "server.port",
	"public_dir":          "server.public_dir",
	"read_header_timeout": "server.read_header_timeout",
	"read_timeout":        "server.read_timeout",
	"write_timeout":       "server.write_timeout",
	"idle_timeout":        "server.idle_timeout",
	"shutdown_timeout":    "server.shutdown_timeout",
	"max_body_bytes":      "server.max_body_bytes",

	"store_driver":   "store.driver",
	"data_file":      "store.file_path",
	"sqlite_path":    "store.sqlite_path",
	"database_url":   "store.database_url",
	"redis_addr":     "store.redis_addr",
	"redis_password": "store.redis_password",
	"redis_db":       "store.redis_db",
	"redis_key":      "store.redis_key",
	"badger_dir":     "store.badger_dir",

	"cookie_secret":       "security.cookie_secret",
	"session_cookie_name": "security.session_cookie_name",
	"session_ttl":         "security.session_ttl",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// Unmapped variables return "" so koanf skips them.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// splitListField turns a comma separated env value into a string slice.
func splitListField(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

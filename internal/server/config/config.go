// Package config собирает конфигурацию сервера из значений по умолчанию,
// YAML файла, переменных окружения и флагов командной строки (в порядке
// возрастания приоритета).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/iudanet/usersvc/internal/server/storage"
)

// Поддерживаемые драйверы хранилища
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrInvalidTokenTTL = errors.New("token ttl must be positive")
	ErrEmptyAddress    = errors.New("listen address is empty")
)

// Config holds runtime settings for the user service.
//
// JWTSecret may be empty: the server still starts, but every login and
// every protected request fails with an internal error until it is set.
type Config struct {
	Address         string        `yaml:"address" env:"USERS_ADDRESS"`
	DBDriver        string        `yaml:"db_driver" env:"USERS_DB_DRIVER"`
	DatabaseDSN     string        `yaml:"database_dsn" env:"USERS_DATABASE_DSN"`
	JWTSecret       string        `yaml:"jwt_secret" env:"USERS_JWT_SECRET"`
	JWTIssuer       string        `yaml:"jwt_issuer" env:"USERS_JWT_ISSUER"`
	AdminEmail      string        `yaml:"admin_email" env:"USERS_ADMIN_EMAIL"`
	AdminPassword   string        `yaml:"admin_password" env:"USERS_ADMIN_PASSWORD"`
	LogLevel        string        `yaml:"log_level" env:"USERS_LOG_LEVEL"`
	TokenTTL        time.Duration `yaml:"token_ttl" env:"USERS_TOKEN_TTL"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"USERS_SHUTDOWN_TIMEOUT"`

	// ShowVersion is set by -version only.
	ShowVersion bool `yaml:"-"`
}

// Default returns development defaults. JWTSecret is intentionally unset.
func Default() *Config {
	return &Config{
		Address:         ":8080",
		DBDriver:        DriverSQLite,
		DatabaseDSN:     "users.db",
		JWTIssuer:       "usersvc",
		LogLevel:        "info",
		TokenTTL:        time.Hour,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds a Config from defaults, the optional YAML file named by
// -config (or USERS_CONFIG), the process environment and args.
func Load(args []string) (*Config, error) {
	return load(args, environ())
}

func load(args []string, environment map[string]string) (*Config, error) {
	cfg := Default()

	fl, err := parseFlags(args)
	if err != nil {
		return nil, err
	}

	path := fl.configPath
	if path == "" {
		path = environment["USERS_CONFIG"]
	}
	if path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fl.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Address == "" {
		return ErrEmptyAddress
	}

	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", storage.ErrUnknownDriver, c.DBDriver)
	}

	if c.TokenTTL <= 0 {
		return ErrInvalidTokenTTL
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// HasAdmin reports whether an admin account should be seeded at startup.
func (c *Config) HasAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

func environ() map[string]string {
	m := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			m[k] = v
		}
	}
	return m
}

// Package config provides application configuration loaded from environment
// variables, optionally layered over a YAML file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	App      AppConfig      `yaml:"app"`
	Session  SessionConfig  `yaml:"session"`
	Redis    RedisConfig    `yaml:"redis"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `yaml:"port" env:"PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// DatabaseConfig holds connection settings. Driver is "postgres" or "sqlite";
// for sqlite, DBName is the database file path.
type DatabaseConfig struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"tutorconnect"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-default:"tutorconnect"`
	DBName   string `yaml:"name" env:"DB_NAME" env-default:"tutorconnect"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env        string `yaml:"env" env:"APP_ENV" env-default:"development"`
	Dev        bool   `yaml:"dev" env:"DEV" env-default:"true"`
	Migrations bool   `yaml:"migrations" env:"MIGRATIONS" env-default:"false"`
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	Secret string        `yaml:"secret" env:"SESSION_SECRET"`
	TTL    time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"168h"`
}

// RedisConfig is optional; an empty URL keeps the in-flight guard in memory.
type RedisConfig struct {
	URL       string        `yaml:"url" env:"REDIS_URL"`
	Prefix    string        `yaml:"prefix" env:"REDIS_PREFIX" env-default:"tutorconnect:"`
	FlightTTL time.Duration `yaml:"flight_ttl" env:"REDIS_FLIGHT_TTL" env-default:"30s"`
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format, as golang-migrate
// expects it.
func (d DatabaseConfig) URL() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// IsProduction reports whether the app runs with production logging and
// secure cookies.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production" || a.Env == "prod"
}

// Load reads configuration. When path (or CONFIG_PATH) names a YAML file it is
// read first and environment variables are overlaid on top; otherwise only the
// environment is used, with defaults for local development.
func Load(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

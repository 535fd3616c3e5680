package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	RepositoryDatabase = "database"
	RepositoryMemory   = "memory"

	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"

	defaultConfigFile = "./todo-api.yaml"
	defaultSQLitePath = "./data/todos.db"
)

type Config struct {
	Port        string `yaml:"port"`
	Env         string `yaml:"env"`
	LogLevel    string `yaml:"log_level"`
	Repository  string `yaml:"repository"`
	DBDriver    string `yaml:"db_driver"`
	DatabaseURL string `yaml:"database_url"`
	CORSOrigins string `yaml:"cors_origins"`
	RateLimit   int    `yaml:"rate_limit"`
}

var AppConfig *Config

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Port:        "3000",
		Env:         "development",
		LogLevel:    "info",
		Repository:  RepositoryDatabase,
		DBDriver:    DriverSQLite,
		CORSOrigins: "http://localhost:3001",
		RateLimit:   200,
	}
}

// Load builds the configuration from, in increasing priority: defaults, the
// YAML file named by CONFIG_FILE (or ./todo-api.yaml when present), .env and
// the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	path := os.Getenv("CONFIG_FILE")
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg.Port = GetEnv("PORT", cfg.Port)
	cfg.Env = GetEnv("ENV", cfg.Env)
	cfg.LogLevel = GetEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Repository = GetEnv("REPOSITORY", cfg.Repository)
	cfg.DBDriver = GetEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DatabaseURL = GetEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.CORSOrigins = GetEnv("CORS_ORIGINS", cfg.CORSOrigins)

	if v := os.Getenv("RATE_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("RATE_LIMIT must be an integer: %w", err)
		}
		cfg.RateLimit = limit
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Repository {
	case RepositoryDatabase, RepositoryMemory:
	default:
		return fmt.Errorf("REPOSITORY must be %q or %q, got %q", RepositoryDatabase, RepositoryMemory, c.Repository)
	}

	if c.Repository == RepositoryDatabase {
		switch c.DBDriver {
		case DriverSQLite:
			if c.DatabaseURL == "" {
				c.DatabaseURL = defaultSQLitePath
			}
		case DriverPostgres:
			if c.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required for the pgx driver")
			}
		default:
			return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver)
		}
	}

	if c.RateLimit < 0 {
		return errors.New("RATE_LIMIT must not be negative")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

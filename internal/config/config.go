// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting the server and tools read at startup.
type Config struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"development"`
	Port            string        `envconfig:"APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	// Empty DatabaseURL selects the in-memory store.
	DatabaseURL        string        `envconfig:"DATABASE_URL"`
	DBMaxConns         int32         `envconfig:"DB_MAX_CONNS" default:"20"`
	DBMinConns         int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	DBMaxConnLifetime  time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
	DBMaxConnIdleTime  time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
	DBStatementTimeout time.Duration `envconfig:"DB_STATEMENT_TIMEOUT" default:"30s"`
	MigrateOnStart     bool          `envconfig:"MIGRATE_ON_START" default:"true"`

	// Empty RedisAddr disables the medicine cache.
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	StockCacheTTL time.Duration `envconfig:"STOCK_CACHE_TTL" default:"5m"`

	MedicineDefaultLocation string `envconfig:"MEDICINE_DEFAULT_LOCATION" default:"main-shelf"`
	MedicineDefaultCategory string `envconfig:"MEDICINE_DEFAULT_CATEGORY" default:"general"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("config: APP_PORT must not be empty")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("config: DB_MAX_CONNS must be positive")
	}
	if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("config: DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	if c.StockCacheTTL <= 0 {
		return fmt.Errorf("config: STOCK_CACHE_TTL must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs with production defaults.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UseDatabase reports whether PostgreSQL is configured.
func (c Config) UseDatabase() bool {
	return c.DatabaseURL != ""
}

// UseCache reports whether Redis is configured.
func (c Config) UseCache() bool {
	return c.RedisAddr != ""
}

package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	DBDSN       string `env:"DB_DSN,required,notEmpty"`
	LogFile     string `env:"LOG_FILE"`

	HTTPAddr           string        `env:"HTTP_ADDR" envDefault:":8080"`
	HTTPRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"10s"`
	SessionSecret      string        `env:"SESSION_SECRET"`
	PhotoDir           string        `env:"PHOTO_DIR" envDefault:"static/img"`

	CacheTTL           time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	CachePurgeInterval time.Duration `env:"CACHE_PURGE_INTERVAL" envDefault:"1m"`
	ReconcileInterval  time.Duration `env:"RECONCILE_INTERVAL" envDefault:"0s"`

	MigrationsAuto bool `env:"MIGRATIONS_AUTO" envDefault:"true"`
}

// Load reads .env when present, then the environment, and validates the result.
func Load() (*Config, error) {
	// .env is optional; real environment variables win
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate checks the combinations env tags cannot express.
func (c *Config) Validate() error {
	if c.Environment != "development" && c.Environment != "production" {
		return fmt.Errorf("ENV must be development or production, got %q", c.Environment)
	}
	if c.IsProduction() && len(c.SessionSecret) < 32 {
		return errors.New("SESSION_SECRET of at least 32 bytes is required in production")
	}
	if c.HTTPRequestTimeout <= 0 {
		return errors.New("HTTP_REQUEST_TIMEOUT must be positive")
	}
	if c.CacheTTL < 0 || c.CachePurgeInterval < 0 || c.ReconcileInterval < 0 {
		return errors.New("cache and reconcile intervals cannot be negative")
	}
	return nil
}

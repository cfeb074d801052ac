package cliparse

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port          int    `env:"PORT" envDefault:"3318"`
	DatabaseURL   string `env:"DATABASE_URL"`
	DatabaseType  string `env:"DATABASE_TYPE" envDefault:"sqlite"`
	AdminID       string `env:"ADMIN_ID"`
	AccessKeySalt string `env:"ACCESS_KEY_SALT"`
}

// ParseFlags loads .env and the environment, then applies CLI overrides
func ParseFlags(args []string) (Config, error) {
	// A missing .env file is fine; real environment variables still apply
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("quickly-elect", flag.ContinueOnError)

	// Environment values become the flag defaults, so CLI args win
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.AdminID, "admin", cfg.AdminID, "Administrator identity")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AccessKeySalt, "key-salt", cfg.AccessKeySalt, "Access key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if cfg.AdminID == "" {
		return Config{}, errors.New("ADMIN_ID required (use -admin or ADMIN_ID env)")
	}

	// Secrets - MUST be provided
	if cfg.AccessKeySalt == "" {
		return Config{}, errors.New("ACCESS_KEY_SALT required")
	}

	return cfg, nil
}

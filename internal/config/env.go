// Package config reads process settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server and CLI settings.
type Config struct {
	HTTPAddr   string        `env:"ENHANCE_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr   string        `env:"ENHANCE_GRPC_ADDR" envDefault:":9090"`
	CatalogDir string        `env:"ENHANCE_CATALOG_DIR" envDefault:"configs"`
	Region     string        `env:"ENHANCE_REGION" envDefault:"EU"`
	PriceSrc   string        `env:"ENHANCE_PRICE_SOURCE" envDefault:"snapshot"`
	PriceURL   string        `env:"ENHANCE_PRICE_URL"`
	PriceTTL   time.Duration `env:"ENHANCE_PRICE_TTL" envDefault:"30m"`
	MarketRPS  float64       `env:"ENHANCE_MARKET_RPS" envDefault:"1"`
	LogLevel   string        `env:"ENHANCE_LOG_LEVEL" envDefault:"info"`
	Watch      bool          `env:"ENHANCE_WATCH" envDefault:"true"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c Config) Validate() error {
	switch c.Region {
	case "EU", "NA":
	default:
		return fmt.Errorf("ENHANCE_REGION must be EU or NA, got %q", c.Region)
	}
	switch c.PriceSrc {
	case "trade", "snapshot", "offline":
	default:
		return fmt.Errorf("ENHANCE_PRICE_SOURCE must be trade, snapshot or offline, got %q", c.PriceSrc)
	}
	if c.PriceTTL <= 0 {
		return fmt.Errorf("ENHANCE_PRICE_TTL must be positive, got %s", c.PriceTTL)
	}
	if c.MarketRPS < 0 {
		return fmt.Errorf("ENHANCE_MARKET_RPS must not be negative, got %v", c.MarketRPS)
	}
	return nil
}

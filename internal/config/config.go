// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the configuration consumed by the service. The JWT secret is
// deliberately not required at load time; its absence surfaces as a
// configuration error when a token is first issued.
type Config struct {
	Port          string `env:"PORT"           envDefault:"3000"`
	Env           string `env:"ENV"            envDefault:"development"`
	JWTSecret     string `env:"JWT_SECRET"`
	BaseURL       string `env:"BASE_URL"       envDefault:"http://localhost:3000"`
	ClientURL     string `env:"CLIENT_URL"     envDefault:"http://localhost:3000"`
	CSRFKey       string `env:"CSRF_KEY"`
	MongoURI      string `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"referral_service"`
}

// Load creates a Config instance from environment variables.
func Load(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	if cfg.JWTSecret == "" {
		logger.Warn().Msg("JWT_SECRET is not set; logins will fail until it is configured")
	}

	return &cfg
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if len(c.CSRFKey) < 32 {
		return fmt.Errorf("CSRF_KEY must be at least 32 bytes")
	}

	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Config carries the knobs the domain core reads from the environment so the
// embedding application's main stays lean.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DATABASE_URL"`

	// LGPD retention windows, in months. Consents older than MaxAge are
	// treated as expired; RenewalThreshold flags consents for proactive
	// renewal before they expire.
	ConsentMaxAgeMonths           int `env:"CONSENT_MAX_AGE_MONTHS" envDefault:"24"`
	ConsentRenewalThresholdMonths int `env:"CONSENT_RENEWAL_THRESHOLD_MONTHS" envDefault:"18"`

	// EventLogCapacity bounds the in-memory event log; oldest entries are
	// dropped beyond it. A durable event store is out of scope.
	EventLogCapacity int `env:"EVENT_LOG_CAPACITY" envDefault:"10000"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("config.Load: BCRYPT_COST %d outside [%d,%d]",
			cfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &cfg, nil
}

// Development reports whether the app runs in development mode, which
// switches log formatting and unmasks internal error detail.
func (c *Config) Development() bool { return c.AppEnv == "development" }

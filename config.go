package cashtrackr

import (
	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
)

// Config carries everything the service needs from its environment.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `env:"ADDR" envDefault:":4000"`

	// DatabaseURL is the SQLite DSN.
	DatabaseURL string `env:"DATABASE_URL" envDefault:"file:cashtrackr.db?_pragma=foreign_keys(1)"`

	// SigningKey signs and verifies bearer credentials. No default on
	// purpose, the process should not come up with a guessable key.
	SigningKey string `env:"JWT_SECRET,required"`

	// TokenExpiration is the bearer credential lifetime in hours.
	TokenExpiration int `env:"JWT_EXPIRATION_HOURS" envDefault:"720"`

	Issuer   string   `env:"JWT_ISSUER" envDefault:"cashtrackr"`
	Audience []string `env:"JWT_AUDIENCE" envSeparator:","`

	// FrontendURL is used to build the links embedded in account
	// confirmation and password reset notifications.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
}

// LoadConfig reads the configuration from the process environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to parse environment configuration")
	}
	return cfg, nil
}

package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings is the process-wide configuration. It is loaded once at startup
// and passed by value into the pieces that need it; nothing mutates it after
// loadSettings returns.
type Settings struct {
	AppName     string `env:"APP_NAME" envDefault:"PredictaX"`
	Environment string `env:"APP_ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"APP_DEBUG" envDefault:"false"`

	DatabaseURL string `env:"DATABASE_URL,required"`

	SecretKey       string        `env:"SECRET_KEY,required"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	BcryptCost      int           `env:"BCRYPT_COST" envDefault:"10"`

	// RegisterVerified controls whether freshly registered accounts are
	// usable immediately or must wait for a verification step.
	RegisterVerified bool `env:"REGISTER_VERIFIED" envDefault:"false"`

	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:4200"`
	Port       string `env:"PORT" envDefault:"8080"`
}

func loadSettings() (Settings, error) {
	_ = godotenv.Load() // load .env if present (ok if missing in prod)

	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

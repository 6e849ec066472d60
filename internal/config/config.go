// Copyright (c) 2025-2026 CSE Motors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// MinTokenSecretLength is the minimum required length for the token signing
// secret. HMAC-SHA256 keys shorter than 32 bytes weaken the signature.
const MinTokenSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath      string `env:"MOTORS_DB_PATH" envDefault:"./data/motors.db"`
	TokenSecret string `env:"MOTORS_TOKEN_SECRET,required"`
	ServerHost  string `env:"MOTORS_SERVER_HOST" envDefault:"localhost"`
	ServerPort  int    `env:"MOTORS_SERVER_PORT" envDefault:"8080"`
	Env         string `env:"MOTORS_ENV" envDefault:"development"`
	LogLevel    string `env:"MOTORS_LOG_LEVEL" envDefault:"info"`

	// Seeding configuration
	DoSeed bool `env:"MOTORS_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.TokenSecret) < MinTokenSecretLength {
		return nil, fmt.Errorf("MOTORS_TOKEN_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinTokenSecretLength, len(cfg.TokenSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.TokenSecret == weak {
			return nil, fmt.Errorf("MOTORS_TOKEN_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if strings.TrimSpace(cfg.DBPath) == "" {
		return nil, fmt.Errorf("MOTORS_DB_PATH must not be empty")
	}

	return cfg, nil
}

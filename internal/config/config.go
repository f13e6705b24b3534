// Package config provides service configuration from the environment, with
// optional .env file support.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds service configuration.
type Config struct {
	// BotToken is the messaging platform credential. The process refuses
	// to start without it.
	BotToken string `env:"BOT_TOKEN"`
	// ArbiterIDs is the fixed allow-list of identities permitted to
	// resolve disputes.
	ArbiterIDs []int64 `env:"ARBITER_IDS" envSeparator:","`
	// PaymentInfo is the free-text payment instructions shown to buyers.
	PaymentInfo string `env:"PAYMENT_INFO" envDefault:"Pay to the escrow holder's account and press «I have paid» once done."`
	// DatabaseURL selects the postgres backend when set; otherwise the
	// store is the sqlite file at SQLitePath.
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"escrow.db"`
	// OpsAddr is the listen address of the read-only operational HTTP API.
	OpsAddr string `env:"OPS_ADDR" envDefault:":8080"`
}

// Load reads configuration from a .env file (if present) and the
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN is not set")
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server's environment-driven configuration. Game timing
// (grace window, play window, question count) is deliberately not here:
// those are rules, not deployment knobs, and live in the game package.
type Config struct {
	Addr          string        `env:"ADDR" envDefault:":3000"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config is read from the environment. Flags override it.
type Config struct {
	LogLevel string `env:"FSMCTL_LOG_LEVEL" envDefault:"info"`
	Workers  int    `env:"FSMCTL_WORKERS" envDefault:"0"` // 0 runs each machine on its own goroutine
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Workers < 0 {
		return Config{}, fmt.Errorf("FSMCTL_WORKERS must not be negative, got %d", cfg.Workers)
	}

	return cfg, nil
}

func (c Config) level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}

	return lvl, nil
}

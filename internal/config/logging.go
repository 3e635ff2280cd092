package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty      bool   `env:"LOG_PRETTY" envDefault:"false"`
	SampleEvery int    `env:"LOG_SAMPLE_EVERY" envDefault:"0"`
	File        string `env:"LOG_FILE"`
	MaxMB       int    `env:"LOG_MAX_MB" envDefault:"10"`
}

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true,
	"error": true, "fatal": true, "panic": true, "disabled": true,
}

func LoadLog() (LogConfig, error) {
	var cfg LogConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	cfg.Level = strings.ToLower(strings.TrimSpace(cfg.Level))
	if !logLevels[cfg.Level] {
		return cfg, fmt.Errorf("LOG_LEVEL %q is not a known level", cfg.Level)
	}
	if cfg.SampleEvery < 0 {
		return cfg, fmt.Errorf("LOG_SAMPLE_EVERY must be >= 0, got %d", cfg.SampleEvery)
	}
	if cfg.File != "" && cfg.MaxMB < 1 {
		return cfg, fmt.Errorf("LOG_MAX_MB must be >= 1 when LOG_FILE is set, got %d", cfg.MaxMB)
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type GameConfig struct {
	Decks          int           `env:"BLACKJACK_DECKS" envDefault:"6"`
	StartingChips  int64         `env:"BLACKJACK_STARTING_CHIPS" envDefault:"1000"`
	BegChips       int64         `env:"BLACKJACK_BEG_CHIPS" envDefault:"1000"`
	ReshuffleRatio float64       `env:"BLACKJACK_RESHUFFLE_RATIO" envDefault:"0.25"`
	DealerStep     time.Duration `env:"DEALER_STEP_INTERVAL" envDefault:"900ms"`
	ResultHold     time.Duration `env:"DEALER_RESULT_HOLD" envDefault:"1500ms"`
}

func LoadGame() (GameConfig, error) {
	var cfg GameConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Decks < 1 {
		return cfg, fmt.Errorf("BLACKJACK_DECKS must be positive, got %d", cfg.Decks)
	}
	if cfg.ReshuffleRatio <= 0 || cfg.ReshuffleRatio >= 1 {
		return cfg, fmt.Errorf("BLACKJACK_RESHUFFLE_RATIO must be in (0,1), got %v", cfg.ReshuffleRatio)
	}
	return cfg, nil
}

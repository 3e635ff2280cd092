package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// BotConfig configures cmd/dumb-bot. An empty RoomCode makes the bot host a
// new room.
type BotConfig struct {
	WSURL    string `env:"WS_URL" envDefault:"ws://localhost:8080/ws"`
	Name     string `env:"BOT_NAME" envDefault:"bot"`
	RoomCode string `env:"ROOM_CODE"`
	Bet      int64  `env:"BOT_BET" envDefault:"50"`
	Rounds   int    `env:"BOT_ROUNDS" envDefault:"0"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	cfg.RoomCode = strings.ToUpper(strings.TrimSpace(cfg.RoomCode))
	if cfg.Bet <= 0 {
		return cfg, fmt.Errorf("BOT_BET must be > 0, got %d", cfg.Bet)
	}
	if cfg.Rounds < 0 {
		return cfg, fmt.Errorf("BOT_ROUNDS must be >= 0, got %d", cfg.Rounds)
	}
	return cfg, nil
}

package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	PostgresDSN    string        `env:"POSTGRES_DSN"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	GracePeriod    time.Duration `env:"ROOM_GRACE_PERIOD" envDefault:"30s"`
	MaxPlayers     int           `env:"MAX_PLAYERS" envDefault:"4"`
	MaxNameLen     int           `env:"MAX_NAME_LEN" envDefault:"20"`
	ShutdownGrace  time.Duration `env:"SHUTDOWN_GRACE" envDefault:"10s"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}

// HistoryEnabled reports whether settled rounds are written to Postgres.
func (c ServerConfig) HistoryEnabled() bool { return c.PostgresDSN != "" }

package main

import (
	"testing"
	"time"

	"card-parlor/internal/config"
)

func TestManagerOptionsCarryConfig(t *testing.T) {
	cfg := config.AppConfig{
		Server: config.ServerConfig{MaxPlayers: 5, MaxNameLen: 12, GracePeriod: time.Minute},
		Game: config.GameConfig{
			Decks: 2, StartingChips: 500, BegChips: 250, ReshuffleRatio: 0.4,
			DealerStep: time.Second, ResultHold: 2 * time.Second,
		},
	}
	opts := managerOptions(cfg)
	if opts.MaxPlayers != 5 || opts.MaxNameLen != 12 || opts.GracePeriod != time.Minute {
		t.Fatalf("unexpected room limits %+v", opts)
	}
	if opts.Decks != 2 || opts.ReshuffleRatio != 0.4 || opts.DealerStep != time.Second || opts.ResultHold != 2*time.Second {
		t.Fatalf("unexpected table options %+v", opts)
	}
	if opts.Game.StartingChips != 500 || opts.Game.BegChips != 250 {
		t.Fatalf("unexpected chip config %+v", opts.Game)
	}
	if opts.Recorder != nil {
		t.Fatal("recorder must stay unset until a store is opened")
	}
}

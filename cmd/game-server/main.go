package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"card-parlor/internal/config"
	"card-parlor/internal/game"
	"card-parlor/internal/logging"
	"card-parlor/internal/room"
	"card-parlor/internal/store"
	httptransport "card-parlor/internal/transport/http"
	"card-parlor/internal/ws"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg config.AppConfig) error {
	deps := httptransport.RouterDeps{}
	opts := managerOptions(cfg)

	if cfg.Server.HistoryEnabled() {
		st, err := store.New(cfg.Server.PostgresDSN)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Ping(ctx); err != nil {
			return err
		}
		opts.Recorder = store.RoundRecorder{Store: st}
		deps.History = st
		log.Info().Msg("round_history_enabled")
	}

	wsServer := ws.NewServer(cfg.Server.AllowedOrigins)
	rooms := room.NewManager(opts, wsServer)
	wsServer.Attach(rooms)
	defer rooms.Close()

	deps.Rooms = rooms
	deps.Spectators = rooms
	deps.WS = wsServer.HandleWS
	router := httptransport.NewRouter(deps)
	httptransport.LogRoutes(router)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("server_listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("server_shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func managerOptions(cfg config.AppConfig) room.Options {
	return room.Options{
		MaxPlayers:     cfg.Server.MaxPlayers,
		MaxNameLen:     cfg.Server.MaxNameLen,
		GracePeriod:    cfg.Server.GracePeriod,
		DealerStep:     cfg.Game.DealerStep,
		ResultHold:     cfg.Game.ResultHold,
		Decks:          cfg.Game.Decks,
		ReshuffleRatio: cfg.Game.ReshuffleRatio,
		Game: game.Config{
			StartingChips: cfg.Game.StartingChips,
			BegChips:      cfg.Game.BegChips,
		},
	}
}

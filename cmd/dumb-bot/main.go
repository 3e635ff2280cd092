package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"card-parlor/internal/config"
	"card-parlor/internal/game"
	"card-parlor/internal/game/viewmodel"
	"card-parlor/internal/logging"
	"card-parlor/internal/room"
	"card-parlor/internal/ws"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type bot struct {
	cfg     config.BotConfig
	conn    *websocket.Conn
	nextAck int64
	pending map[int64]string

	lastMove string
	rounds   int
}

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(logCfg); err != nil {
		panic(err)
	}
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}

	conn, _, err := websocket.DefaultDialer.Dial(cfg.WSURL, nil)
	if err != nil {
		log.Fatal().Err(err).Str("url", cfg.WSURL).Msg("dial failed")
	}
	defer conn.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	b := &bot{cfg: cfg, conn: conn, pending: map[int64]string{}}
	if err := b.run(); err != nil {
		log.Error().Err(err).Msg("bot stopped")
	}
}

func (b *bot) run() error {
	if b.cfg.RoomCode == "" {
		if err := b.send(ws.EventCreateRoom, ws.CreateRoomRequest{Name: b.cfg.Name, GameKind: string(room.KindBlackjack)}); err != nil {
			return err
		}
	} else {
		if err := b.send(ws.EventJoinRoom, ws.JoinRoomRequest{Code: b.cfg.RoomCode, Name: b.cfg.Name}); err != nil {
			return err
		}
	}
	for {
		var env ws.Envelope
		if err := b.conn.ReadJSON(&env); err != nil {
			return err
		}
		done, err := b.handle(env)
		if err != nil {
			return err
		}
		if done {
			log.Info().Int("rounds", b.rounds).Msg("bot_finished")
			return nil
		}
	}
}

func (b *bot) handle(env ws.Envelope) (bool, error) {
	switch env.Event {
	case ws.EventAck:
		return false, b.handleAck(env)
	case room.EventGameStarted:
		var gs room.GameStarted
		if err := json.Unmarshal(env.Data, &gs); err != nil {
			return false, err
		}
		return b.react(gs.GameState)
	case room.EventBlackjackUpdate:
		var up room.BlackjackUpdate
		if err := json.Unmarshal(env.Data, &up); err != nil {
			return false, err
		}
		return b.react(up.GameState)
	}
	return false, nil
}

func (b *bot) handleAck(env ws.Envelope) error {
	if env.Ack == nil {
		return nil
	}
	event := b.pending[*env.Ack]
	delete(b.pending, *env.Ack)
	var res ws.AckResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		return err
	}
	if !res.Success {
		if event == ws.EventCreateRoom || event == ws.EventJoinRoom {
			return fmt.Errorf("%s: %s", event, res.Error)
		}
		log.Debug().Str("event", event).Str("error", res.Error).Msg("bot_request_rejected")
		return nil
	}
	if event == ws.EventCreateRoom {
		log.Info().Str("room", res.Code).Msg("bot_room_created")
		return b.send(ws.EventStartGame, nil)
	}
	if event == ws.EventJoinRoom {
		log.Info().Str("room", res.Code).Bool("reconnected", res.Reconnected).Msg("bot_joined")
	}
	return nil
}

func (b *bot) react(view viewmodel.TableView) (bool, error) {
	if view.Phase == game.PhaseRoundOver && moveKey(view) != b.lastMove {
		b.rounds++
		if b.cfg.Rounds > 0 && b.rounds >= b.cfg.Rounds {
			return true, nil
		}
	}
	mv, ok := decide(view, b.cfg.Bet)
	if !ok {
		return false, nil
	}
	key := moveKey(view)
	if key == b.lastMove {
		return false, nil
	}
	b.lastMove = key
	return false, b.send(mv.event, mv.data)
}

type move struct {
	event string
	data  any
}

// decide picks the bot's next request: bet a fixed amount, decline insurance,
// hit below 17 and vote for the next hand.
func decide(view viewmodel.TableView, bet int64) (move, bool) {
	me := self(view)
	if me == nil {
		return move{}, false
	}
	a := view.AvailableActions
	switch {
	case a.Beg:
		return move{ws.EventBlackjackBeg, ws.BegRequest{Message: "I suck at gambling"}}, true
	case a.PlaceBet && !me.BetReady:
		amount := bet
		if amount > me.Chips+me.Bet {
			amount = me.Chips + me.Bet
		}
		return move{ws.EventBlackjackPlaceBet, ws.PlaceBetRequest{Amount: amount}}, true
	case a.Insurance:
		return move{ws.EventBlackjackAction, ws.ActionRequest{Action: string(game.ActionInsurance), Amount: 0}}, true
	case a.Hit && me.ActiveHand != nil && me.ActiveHand.Score < 17:
		return move{ws.EventBlackjackAction, ws.ActionRequest{Action: string(game.ActionHit)}}, true
	case a.Stand:
		return move{ws.EventBlackjackAction, ws.ActionRequest{Action: string(game.ActionStand)}}, true
	case a.VoteNextHand:
		return move{ws.EventBlackjackVoteNextHand, nil}, true
	}
	return move{}, false
}

func self(view viewmodel.TableView) *viewmodel.PlayerView {
	for i := range view.Players {
		if view.Players[i].IsMe {
			return &view.Players[i]
		}
	}
	return nil
}

// moveKey identifies a decision point so repeated pushes of the same table
// don't trigger the same request twice.
func moveKey(view viewmodel.TableView) string {
	me := self(view)
	if me == nil {
		return ""
	}
	cards := 0
	for _, h := range me.Hands {
		cards += len(h.Cards)
	}
	return fmt.Sprintf("%d/%s/%d/%d/%t/%t/%d", view.Round, view.Phase, me.ActiveHandIndex, cards, me.BetReady, me.InsuranceDecided, me.Chips)
}

func (b *bot) send(event string, data any) error {
	b.nextAck++
	id := b.nextAck
	b.pending[id] = event
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return err
		}
		raw = encoded
	}
	return b.conn.WriteJSON(ws.Envelope{Event: event, Ack: &id, Data: raw})
}

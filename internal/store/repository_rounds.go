package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"card-parlor/internal/game"
)

const maxRoundsPage = 100

type RoundHand struct {
	Index   int      `json:"index"`
	Cards   []string `json:"cards"`
	Score   int      `json:"score"`
	Bet     int64    `json:"bet"`
	Payout  int64    `json:"payout"`
	Outcome string   `json:"outcome"`
}

type RoundPlayer struct {
	Seat            int         `json:"seat"`
	PlayerID        string      `json:"playerId"`
	Name            string      `json:"name"`
	Result          string      `json:"result"`
	Insurance       int64       `json:"insurance"`
	InsurancePayout int64       `json:"insurancePayout"`
	Net             int64       `json:"net"`
	ChipsAfter      int64       `json:"chipsAfter"`
	Hands           []RoundHand `json:"hands"`
}

// RoundRecord is one settled round as stored.
type RoundRecord struct {
	ID            string        `json:"id"`
	RoomCode      string        `json:"roomCode"`
	Round         int           `json:"round"`
	DealerCards   []string      `json:"dealerCards"`
	DealerScore   int           `json:"dealerScore"`
	DealerNatural bool          `json:"dealerNatural"`
	CreatedAt     time.Time     `json:"createdAt"`
	Players       []RoundPlayer `json:"players"`
}

// RecordRound writes a settlement and its hands in one transaction and
// returns the new round id.
func (s *Store) RecordRound(ctx context.Context, roomCode string, st *game.Settlement) (string, error) {
	if st == nil {
		return "", errors.New("nil settlement")
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	id := NewID()
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO blackjack_rounds (id, room_code, round_no, dealer_cards, dealer_score, dealer_natural)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, roomCode, st.Round, cardCodes(st.DealerCards), st.DealerScore, st.DealerNatural)
	for seat, p := range st.Players {
		batch.Queue(`INSERT INTO blackjack_round_players
			(round_id, seat, player_id, name, result, insurance, insurance_payout, net, chips_after)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			id, seat, p.PlayerID, p.Name, string(p.Result), p.Insurance, p.InsurancePayout, p.Net, p.ChipsAfter)
		for _, h := range p.Hands {
			batch.Queue(`INSERT INTO blackjack_round_hands
				(round_id, seat, hand_index, cards, score, bet, payout, outcome)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				id, seat, h.Index, cardCodes(h.Cards), h.Score, h.Bet, h.Payout, string(h.Outcome))
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// ListRounds returns the most recent rounds of a room, newest first.
func (s *Store) ListRounds(ctx context.Context, roomCode string, limit int) ([]RoundRecord, error) {
	if limit <= 0 || limit > maxRoundsPage {
		limit = 20
	}
	rows, err := s.Pool.Query(ctx, `SELECT id, room_code, round_no, dealer_cards, dealer_score, dealer_natural, created_at
		FROM blackjack_rounds WHERE room_code = $1
		ORDER BY created_at DESC, id DESC LIMIT $2`, roomCode, limit)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (RoundRecord, error) {
		var r RoundRecord
		err := row.Scan(&r.ID, &r.RoomCode, &r.Round, &r.DealerCards, &r.DealerScore, &r.DealerNatural, &r.CreatedAt)
		return r, err
	})
	if err != nil {
		return nil, err
	}
	for i := range out {
		players, err := s.roundPlayers(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Players = players
	}
	return out, nil
}

func (s *Store) GetRound(ctx context.Context, id string) (RoundRecord, error) {
	if !ValidID(id) {
		return RoundRecord{}, ErrNotFound
	}
	var r RoundRecord
	err := s.Pool.QueryRow(ctx, `SELECT id, room_code, round_no, dealer_cards, dealer_score, dealer_natural, created_at
		FROM blackjack_rounds WHERE id = $1`, id).
		Scan(&r.ID, &r.RoomCode, &r.Round, &r.DealerCards, &r.DealerScore, &r.DealerNatural, &r.CreatedAt)
	if err != nil {
		return RoundRecord{}, mapNotFound(err)
	}
	r.Players, err = s.roundPlayers(ctx, id)
	if err != nil {
		return RoundRecord{}, err
	}
	return r, nil
}

func (s *Store) roundPlayers(ctx context.Context, roundID string) ([]RoundPlayer, error) {
	rows, err := s.Pool.Query(ctx, `SELECT seat, player_id, name, result, insurance, insurance_payout, net, chips_after
		FROM blackjack_round_players WHERE round_id = $1 ORDER BY seat`, roundID)
	if err != nil {
		return nil, err
	}
	players, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (RoundPlayer, error) {
		var p RoundPlayer
		err := row.Scan(&p.Seat, &p.PlayerID, &p.Name, &p.Result, &p.Insurance, &p.InsurancePayout, &p.Net, &p.ChipsAfter)
		return p, err
	})
	if err != nil {
		return nil, err
	}

	rows, err = s.Pool.Query(ctx, `SELECT seat, hand_index, cards, score, bet, payout, outcome
		FROM blackjack_round_hands WHERE round_id = $1 ORDER BY seat, hand_index`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bySeat := make(map[int]int, len(players))
	for i, p := range players {
		bySeat[p.Seat] = i
		players[i].Hands = []RoundHand{}
	}
	for rows.Next() {
		var seat int
		var h RoundHand
		if err := rows.Scan(&seat, &h.Index, &h.Cards, &h.Score, &h.Bet, &h.Payout, &h.Outcome); err != nil {
			return nil, err
		}
		if i, ok := bySeat[seat]; ok {
			players[i].Hands = append(players[i].Hands, h)
		}
	}
	return players, rows.Err()
}

// RoundRecorder adapts the store to the room package's settlement sink.
type RoundRecorder struct {
	Store *Store
}

func (r RoundRecorder) RecordRound(ctx context.Context, roomCode string, st *game.Settlement) error {
	_, err := r.Store.RecordRound(ctx, roomCode, st)
	return err
}

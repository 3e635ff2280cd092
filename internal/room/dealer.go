package room

import (
	"github.com/rs/zerolog/log"

	"card-parlor/internal/game"
)

// dealerTask is the room-owned dealer turn. A room holds at most one; every
// timer callback checks it is still the owned task before touching the game.
type dealerTask struct {
	timer Timer
}

// armDealerLocked starts the dealer turn if the table is waiting on it. It is
// a no-op while a task is already running.
func (m *Manager) armDealerLocked(r *Room) {
	if r.closed || r.game == nil || r.game.Phase != game.PhaseDealerTurn || r.dealer != nil {
		return
	}
	if err := r.game.RevealHole(); err != nil {
		log.Error().Err(err).Str("room", r.Code).Msg("dealer_reveal_failed")
		return
	}
	task := &dealerTask{}
	r.dealer = task
	log.Debug().Str("room", r.Code).Int("round", r.game.Round).Int("dealer_score", r.game.Dealer.Score()).Msg("dealer_turn_started")
	m.broadcastStateLocked(r, LastAction{Type: "dealerReveal"})
	m.scheduleDealerLocked(r, task)
}

func (m *Manager) scheduleDealerLocked(r *Room, task *dealerTask) {
	if r.game.DealerMustDraw() {
		task.timer = m.clock.AfterFunc(m.opts.DealerStep, func() { m.dealerStep(r, task) })
		return
	}
	task.timer = m.clock.AfterFunc(m.opts.ResultHold, func() { m.dealerFinish(r, task) })
}

func (m *Manager) dealerStep(r *Room, task *dealerTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.dealer != task {
		return
	}
	if err := r.game.DealerDraw(); err != nil {
		log.Warn().Err(err).Str("room", r.Code).Msg("dealer_draw_failed")
		task.timer = m.clock.AfterFunc(m.opts.ResultHold, func() { m.dealerFinish(r, task) })
		return
	}
	m.broadcastStateLocked(r, LastAction{Type: "dealerDraw"})
	m.scheduleDealerLocked(r, task)
}

// dealerFinish settles once the final dealer hand has been on screen for the
// hold delay.
func (m *Manager) dealerFinish(r *Room, task *dealerTask) {
	r.mu.Lock()
	if r.closed || r.dealer != task {
		r.mu.Unlock()
		return
	}
	r.dealer = nil
	before := r.game.LastSettlement()
	if _, err := r.game.Settle(); err != nil {
		r.mu.Unlock()
		log.Error().Err(err).Str("room", r.Code).Msg("dealer_settle_failed")
		return
	}
	pending := m.afterMutationLocked(r, LastAction{Type: "roundOver"}, before)
	r.mu.Unlock()

	m.recordRound(pending)
}

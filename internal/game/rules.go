package game

import (
	"errors"
	"strings"
)

var (
	ErrNotYourTurn       = errors.New("not_your_turn")
	ErrInvalidPhase      = errors.New("invalid_phase")
	ErrInvalidAction     = errors.New("invalid_action")
	ErrInsufficientChips = errors.New("insufficient_chips")
	ErrShoeEmpty         = errors.New("shoe_empty")
	ErrInvalidBet        = errors.New("invalid_bet")
	ErrInvalidInsurance  = errors.New("invalid_insurance")
	ErrAlreadyDecided    = errors.New("already_decided")
	ErrCannotDouble      = errors.New("cannot_double")
	ErrCannotSplit       = errors.New("cannot_split")
	ErrCannotSurrender   = errors.New("cannot_surrender")
	ErrBegRejected       = errors.New("beg_rejected")
	ErrPlayerNotFound    = errors.New("player_not_found")
)

const begPhrase = "i suck at gambling"

type ActionType string

const (
	ActionHit       ActionType = "hit"
	ActionStand     ActionType = "stand"
	ActionDouble    ActionType = "double"
	ActionSplit     ActionType = "split"
	ActionSurrender ActionType = "surrender"
	ActionInsurance ActionType = "insurance"
)

func ParseAction(s string) (ActionType, bool) {
	switch a := ActionType(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionHit, ActionStand, ActionDouble, ActionSplit, ActionSurrender, ActionInsurance:
		return a, true
	default:
		return "", false
	}
}

// Actions is the per-viewer legality map sent to clients.
type Actions struct {
	Hit          bool  `json:"hit"`
	Stand        bool  `json:"stand"`
	Double       bool  `json:"double"`
	Split        bool  `json:"split"`
	Surrender    bool  `json:"surrender"`
	Insurance    bool  `json:"insurance"`
	InsuranceMax int64 `json:"insuranceMax"`
	PlaceBet     bool  `json:"placeBet"`
	VoteNextHand bool  `json:"voteNextHand"`
	Beg          bool  `json:"beg"`
}

func (g *Game) AvailableActions(playerID string) Actions {
	var a Actions
	p, _ := g.Player(playerID)
	if p == nil {
		return a
	}
	a.Beg = g.checkBeg(p) == nil
	switch g.Phase {
	case PhaseBetting:
		a.PlaceBet = p.Connected && p.Chips+p.Bet > 0
	case PhaseInsurance:
		if g.checkInsurance(p) == nil {
			a.Insurance = true
			a.InsuranceMax = g.insuranceMax(p)
		}
	case PhasePlaying:
		if g.checkTurn(p.ID) != nil {
			return a
		}
		a.Hit = true
		a.Stand = true
		a.Double = g.checkDouble(p) == nil
		a.Split = g.checkSplit(p) == nil
		a.Surrender = g.checkSurrender(p) == nil
	case PhaseRoundOver:
		a.VoteNextHand = p.Connected && !g.ReadyVotes.Has(p.ID)
	}
	return a
}

func (g *Game) checkTurn(playerID string) error {
	if g.Phase != PhasePlaying {
		return ErrInvalidPhase
	}
	p := g.ActingPlayer()
	if p == nil || p.ID != playerID {
		return ErrNotYourTurn
	}
	h := p.CurrentHand()
	if h == nil || h.Status != HandPlaying {
		return ErrNotYourTurn
	}
	return nil
}

func (g *Game) checkDouble(p *Player) error {
	h := p.CurrentHand()
	if h == nil || len(h.Cards) != 2 {
		return ErrCannotDouble
	}
	if p.Chips < h.Bet {
		return ErrInsufficientChips
	}
	return nil
}

func (g *Game) checkSplit(p *Player) error {
	h := p.CurrentHand()
	if h == nil || len(h.Cards) != 2 || h.Cards[0].RankGroup() != h.Cards[1].RankGroup() {
		return ErrCannotSplit
	}
	if len(p.Hands) >= MaxHandsPerPlayer {
		return ErrCannotSplit
	}
	if p.Chips < h.Bet {
		return ErrInsufficientChips
	}
	return nil
}

func (g *Game) checkSurrender(p *Player) error {
	h := p.CurrentHand()
	if h == nil || len(p.Hands) != 1 || h.FromSplit || len(h.Cards) != 2 || h.Doubled {
		return ErrCannotSurrender
	}
	return nil
}

func (g *Game) checkInsurance(p *Player) error {
	if g.Phase != PhaseInsurance {
		return ErrInvalidPhase
	}
	if !p.inRound() {
		return ErrInvalidAction
	}
	if p.InsuranceDecided {
		return ErrAlreadyDecided
	}
	return nil
}

func (g *Game) insuranceMax(p *Player) int64 {
	limit := p.Bet / 2
	if p.Chips < limit {
		limit = p.Chips
	}
	return limit
}

func (g *Game) checkBeg(p *Player) error {
	if p.Chips > 0 {
		return ErrBegRejected
	}
	if g.Phase != PhaseRoundOver && p.Staked() > 0 {
		return ErrBegRejected
	}
	return nil
}

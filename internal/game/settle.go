package game

type HandSettlement struct {
	Index   int     `json:"index"`
	Cards   []Card  `json:"cards"`
	Score   int     `json:"score"`
	Bet     int64   `json:"bet"`
	Payout  int64   `json:"payout"`
	Outcome Outcome `json:"outcome"`
}

type PlayerSettlement struct {
	PlayerID        string           `json:"playerId"`
	Name            string           `json:"name"`
	Result          RoundResult      `json:"result"`
	Insurance       int64            `json:"insurance"`
	InsurancePayout int64            `json:"insurancePayout"`
	Net             int64            `json:"net"`
	ChipsAfter      int64            `json:"chipsAfter"`
	Hands           []HandSettlement `json:"hands"`
}

// Settlement summarises one resolved round.
type Settlement struct {
	Round         int                `json:"round"`
	DealerCards   []Card             `json:"dealerCards"`
	DealerScore   int                `json:"dealerScore"`
	DealerNatural bool               `json:"dealerNatural"`
	Players       []PlayerSettlement `json:"players"`
}

// Settle resolves the round after the dealer has finished drawing.
func (g *Game) Settle() (*Settlement, error) {
	if g.Phase != PhaseDealerTurn {
		return nil, ErrInvalidPhase
	}
	g.Dealer.Hidden = false
	return g.settle(), nil
}

// LastSettlement is the most recent round's summary, nil before the first.
func (g *Game) LastSettlement() *Settlement { return g.lastSettlement }

// HandPayout applies the per-hand payout table. The return value is the total
// credited back, stake included.
func HandPayout(h *Hand, dealer *Dealer) (int64, Outcome) {
	dealerScore := dealer.Score()
	score := h.Score()
	switch {
	case h.Status == HandSurrendered:
		return h.Bet / 2, OutcomeSurrender
	case score > 21:
		return 0, OutcomeLoss
	case h.IsNatural() && dealer.IsNatural():
		return h.Bet, OutcomePush
	case h.IsNatural():
		return h.Bet + h.Bet*3/2, OutcomeBlackjack
	case dealerScore > 21:
		return 2 * h.Bet, OutcomeWin
	case score > dealerScore:
		return 2 * h.Bet, OutcomeWin
	case score < dealerScore:
		return 0, OutcomeLoss
	default:
		return h.Bet, OutcomePush
	}
}

func aggregateResult(hands []*Hand) RoundResult {
	allPush, allSurrender := true, true
	for _, h := range hands {
		if h.Outcome == OutcomeWin || h.Outcome == OutcomeBlackjack {
			return ResultWin
		}
		if h.Outcome != OutcomePush {
			allPush = false
		}
		if h.Outcome != OutcomeSurrender {
			allSurrender = false
		}
	}
	switch {
	case allPush:
		return ResultPush
	case allSurrender:
		return ResultSurrender
	default:
		return ResultLoss
	}
}

func (g *Game) settle() *Settlement {
	out := &Settlement{
		Round:         g.Round,
		DealerCards:   append([]Card(nil), g.Dealer.Cards...),
		DealerScore:   g.Dealer.Score(),
		DealerNatural: g.Dealer.IsNatural(),
	}
	for _, p := range g.Players {
		if !p.inRound() {
			continue
		}
		ps := PlayerSettlement{
			PlayerID:        p.ID,
			Name:            p.Name,
			Insurance:       p.Insurance,
			InsurancePayout: p.InsurancePayout,
		}
		staked := p.Insurance
		credited := p.InsurancePayout
		for i, h := range p.Hands {
			h.Payout, h.Outcome = HandPayout(h, &g.Dealer)
			p.Chips += h.Payout
			staked += h.Bet
			credited += h.Payout
			ps.Hands = append(ps.Hands, HandSettlement{
				Index:   i,
				Cards:   append([]Card(nil), h.Cards...),
				Score:   h.Score(),
				Bet:     h.Bet,
				Payout:  h.Payout,
				Outcome: h.Outcome,
			})
		}
		p.Result = aggregateResult(p.Hands)
		p.Net = credited - staked
		ps.Result = p.Result
		ps.Net = p.Net
		ps.ChipsAfter = p.Chips
		out.Players = append(out.Players, ps)
	}
	g.ReadyVotes.Clear()
	g.Phase = PhaseRoundOver
	g.lastSettlement = out
	return out
}

package game

import (
	"fmt"
	"strings"
)

// PlaceBet sets the caller's stake for the coming round. Any previous stake is
// refunded first; an amount of zero withdraws the bet.
func (g *Game) PlaceBet(playerID string, amount int64) error {
	if g.Phase != PhaseBetting {
		return ErrInvalidPhase
	}
	p, _ := g.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if amount < 0 {
		return ErrInvalidBet
	}
	if amount == 0 && p.Bet == 0 {
		return ErrInvalidBet
	}
	if amount > p.Chips+p.Bet {
		return ErrInsufficientChips
	}
	p.Chips += p.Bet
	p.Chips -= amount
	p.Bet = amount
	p.BetReady = amount > 0
	return g.maybeDeal()
}

func (g *Game) bettingComplete() bool {
	anyBet := false
	for _, p := range g.Players {
		if p.Bet > 0 {
			anyBet = true
		}
		if !p.Connected {
			continue
		}
		if p.Bet > 0 && p.BetReady {
			continue
		}
		if p.Bet == 0 && p.Chips == 0 {
			continue
		}
		return false
	}
	return anyBet
}

func (g *Game) maybeDeal() error {
	if g.Phase != PhaseBetting || !g.bettingComplete() {
		return nil
	}
	return g.deal()
}

func (g *Game) deal() error {
	seated := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.Bet > 0 {
			seated = append(seated, p)
		}
	}
	if !g.shoe.CanDraw(2 * (len(seated) + 1)) {
		return ErrShoeEmpty
	}
	for _, p := range seated {
		p.Hands = []*Hand{{Bet: p.Bet, Status: HandPlaying}}
		p.ActiveHand = 0
	}
	g.Dealer = Dealer{Hidden: true}
	for pass := 0; pass < 2; pass++ {
		for _, p := range seated {
			c, err := g.shoe.Draw()
			if err != nil {
				return err
			}
			p.Hands[0].Cards = append(p.Hands[0].Cards, c)
		}
		c, err := g.shoe.Draw()
		if err != nil {
			return err
		}
		g.Dealer.Cards = append(g.Dealer.Cards, c)
	}
	for _, p := range seated {
		if p.Hands[0].IsNatural() {
			p.Hands[0].Status = HandBlackjack
		}
	}
	g.Turn = 0

	if up, _ := g.Dealer.UpCard(); up.Rank == Ace {
		g.Phase = PhaseInsurance
		for _, p := range g.Players {
			if !p.inRound() || !p.Connected {
				p.InsuranceDecided = true
			}
		}
		g.maybeResolveInsurance()
		return nil
	}
	g.startPlaying()
	return nil
}

func (g *Game) startPlaying() {
	g.Phase = PhasePlaying
	g.Turn = 0
	for _, p := range g.Players {
		p.ActiveHand = 0
	}
	g.advanceTurn()
}

// advanceTurn moves to the next hand still in play, standing any hands owned
// by disconnected players on the way. Runs out into the dealer's turn.
func (g *Game) advanceTurn() {
	for g.Turn < len(g.Players) {
		p := g.Players[g.Turn]
		for p.ActiveHand < len(p.Hands) {
			h := p.Hands[p.ActiveHand]
			if h.Status == HandPlaying {
				if p.Connected {
					return
				}
				h.Status = HandStanding
			}
			p.ActiveHand++
		}
		g.Turn++
	}
	g.Phase = PhaseDealerTurn
}

func (g *Game) Hit(playerID string) error {
	if err := g.checkTurn(playerID); err != nil {
		return err
	}
	if !g.shoe.CanDraw(1) {
		return ErrShoeEmpty
	}
	p := g.Players[g.Turn]
	h := p.CurrentHand()
	c, err := g.shoe.Draw()
	if err != nil {
		return err
	}
	h.Cards = append(h.Cards, c)
	switch score := h.Score(); {
	case score > 21:
		h.Status = HandBusted
	case score == 21:
		h.Status = HandTwentyOne
	}
	if h.terminal() {
		g.advanceTurn()
	}
	return nil
}

func (g *Game) Stand(playerID string) error {
	if err := g.checkTurn(playerID); err != nil {
		return err
	}
	g.Players[g.Turn].CurrentHand().Status = HandStanding
	g.advanceTurn()
	return nil
}

func (g *Game) Double(playerID string) error {
	if err := g.checkTurn(playerID); err != nil {
		return err
	}
	p := g.Players[g.Turn]
	if err := g.checkDouble(p); err != nil {
		return err
	}
	if !g.shoe.CanDraw(1) {
		return ErrShoeEmpty
	}
	h := p.CurrentHand()
	c, err := g.shoe.Draw()
	if err != nil {
		return err
	}
	p.Chips -= h.Bet
	h.Bet *= 2
	h.Doubled = true
	h.Cards = append(h.Cards, c)
	if h.Score() > 21 {
		h.Status = HandBusted
	} else {
		h.Status = HandStanding
	}
	g.advanceTurn()
	return nil
}

func (g *Game) Split(playerID string) error {
	if err := g.checkTurn(playerID); err != nil {
		return err
	}
	p := g.Players[g.Turn]
	if err := g.checkSplit(p); err != nil {
		return err
	}
	if !g.shoe.CanDraw(2) {
		return ErrShoeEmpty
	}
	orig := p.CurrentHand()
	first := &Hand{Cards: []Card{orig.Cards[0]}, Bet: orig.Bet, FromSplit: true, Status: HandPlaying}
	second := &Hand{Cards: []Card{orig.Cards[1]}, Bet: orig.Bet, FromSplit: true, Status: HandPlaying}
	for _, h := range []*Hand{first, second} {
		c, err := g.shoe.Draw()
		if err != nil {
			return err
		}
		h.Cards = append(h.Cards, c)
		if h.Score() == 21 {
			h.Status = HandTwentyOne
		}
	}
	p.Chips -= orig.Bet

	i := p.ActiveHand
	hands := make([]*Hand, 0, len(p.Hands)+1)
	hands = append(hands, p.Hands[:i]...)
	hands = append(hands, first, second)
	hands = append(hands, p.Hands[i+1:]...)
	p.Hands = hands
	if first.terminal() {
		g.advanceTurn()
	}
	return nil
}

func (g *Game) Surrender(playerID string) error {
	if err := g.checkTurn(playerID); err != nil {
		return err
	}
	p := g.Players[g.Turn]
	if err := g.checkSurrender(p); err != nil {
		return err
	}
	h := p.CurrentHand()
	h.Surrendered = true
	h.Status = HandSurrendered
	g.advanceTurn()
	return nil
}

// Insurance records the caller's side bet. An amount of zero declines.
func (g *Game) Insurance(playerID string, amount int64) error {
	p, _ := g.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if err := g.checkInsurance(p); err != nil {
		return err
	}
	if amount < 0 || amount > p.Bet/2 {
		return ErrInvalidInsurance
	}
	if amount > p.Chips {
		return ErrInsufficientChips
	}
	p.Chips -= amount
	p.Insurance = amount
	p.InsuranceDecided = true
	g.maybeResolveInsurance()
	return nil
}

func (g *Game) maybeResolveInsurance() {
	if g.Phase != PhaseInsurance {
		return
	}
	for _, p := range g.Players {
		if p.Connected && p.inRound() && !p.InsuranceDecided {
			return
		}
	}
	if g.Dealer.IsNatural() {
		for _, p := range g.Players {
			p.InsurancePayout = 3 * p.Insurance
			p.Chips += p.InsurancePayout
		}
		g.Dealer.Hidden = false
		g.settle()
		return
	}
	g.startPlaying()
}

// VoteNextHand registers the caller as ready; once every connected player has
// voted the table is cleared for the next betting round.
func (g *Game) VoteNextHand(playerID string) error {
	if g.Phase != PhaseRoundOver {
		return ErrInvalidPhase
	}
	p, _ := g.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	g.ReadyVotes.Add(p.ID)
	g.maybeNextRound()
	return nil
}

func (g *Game) maybeNextRound() {
	if g.Phase != PhaseRoundOver {
		return
	}
	connected := 0
	for _, p := range g.Players {
		if !p.Connected {
			continue
		}
		connected++
		if !g.ReadyVotes.Has(p.ID) {
			return
		}
	}
	if connected == 0 {
		return
	}
	g.clearTable()
}

func (g *Game) clearTable() {
	g.shoe.Discard(g.Dealer.Cards...)
	g.Dealer = Dealer{Hidden: true}
	for _, p := range g.Players {
		for _, h := range p.Hands {
			g.shoe.Discard(h.Cards...)
		}
		p.Hands = nil
		p.ActiveHand = 0
		p.Bet = 0
		p.BetReady = false
		p.Insurance = 0
		p.InsuranceDecided = false
		p.InsurancePayout = 0
		p.Result = ""
		p.Net = 0
	}
	g.ReadyVotes.Clear()
	g.Turn = 0
	g.Round++
	g.Phase = PhaseBetting
}

// Beg tops up a broke player who asks nicely.
func (g *Game) Beg(playerID, message string) (int64, error) {
	p, _ := g.Player(playerID)
	if p == nil {
		return 0, ErrPlayerNotFound
	}
	if err := g.checkBeg(p); err != nil {
		return p.Chips, err
	}
	if strings.ToLower(strings.TrimSpace(message)) != begPhrase {
		return p.Chips, ErrBegRejected
	}
	p.Chips += g.cfg.BegChips
	return p.Chips, nil
}

// SetConnected flips a player's presence and applies the phase-specific
// release rules so a vanished player never blocks the table.
func (g *Game) SetConnected(playerID string, connected bool) error {
	p, idx := g.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.Connected = connected
	if connected {
		return nil
	}
	switch g.Phase {
	case PhaseBetting:
		return g.maybeDeal()
	case PhaseInsurance:
		if p.inRound() && !p.InsuranceDecided {
			p.InsuranceDecided = true
		}
		g.maybeResolveInsurance()
	case PhasePlaying:
		if idx == g.Turn {
			g.advanceTurn()
		}
	case PhaseRoundOver:
		g.maybeNextRound()
	}
	return nil
}

// ReplacePlayerID rebinds a player record to a new connection id, including
// the ready-vote set. Nothing changes when it fails.
func (g *Game) ReplacePlayerID(oldID, newID string) error {
	p, _ := g.Player(oldID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if other, _ := g.Player(newID); other != nil {
		return fmt.Errorf("%w: id %s already seated", ErrInvalidAction, newID)
	}
	p.ID = newID
	if g.ReadyVotes.Has(oldID) {
		g.ReadyVotes.Replace(oldID, newID)
	}
	return nil
}

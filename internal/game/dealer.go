package game

const dealerStandsOn = 17

// RevealHole flips the dealer's hidden card. It is the first step of the
// dealer's turn.
func (g *Game) RevealHole() error {
	if g.Phase != PhaseDealerTurn {
		return ErrInvalidPhase
	}
	g.Dealer.Hidden = false
	return nil
}

// DealerMustDraw reports whether the dealer takes another card. An exhausted
// shoe ends the dealer's turn.
func (g *Game) DealerMustDraw() bool {
	if g.Phase != PhaseDealerTurn || g.Dealer.Hidden {
		return false
	}
	return g.Dealer.Score() < dealerStandsOn && g.shoe.CanDraw(1)
}

func (g *Game) DealerDraw() error {
	if g.Phase != PhaseDealerTurn || g.Dealer.Hidden {
		return ErrInvalidPhase
	}
	c, err := g.shoe.Draw()
	if err != nil {
		return err
	}
	g.Dealer.Cards = append(g.Dealer.Cards, c)
	return nil
}

// PlayDealer runs the whole dealer turn synchronously and settles.
func (g *Game) PlayDealer() (*Settlement, error) {
	if err := g.RevealHole(); err != nil {
		return nil, err
	}
	for g.DealerMustDraw() {
		if err := g.DealerDraw(); err != nil {
			return nil, err
		}
	}
	return g.Settle()
}

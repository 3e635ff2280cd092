package viewmodel

import "card-parlor/internal/game"

type HandView struct {
	Cards       []game.CardJSON `json:"cards"`
	Score       int             `json:"score"`
	Bet         int64           `json:"bet"`
	Doubled     bool            `json:"doubled"`
	Surrendered bool            `json:"surrendered"`
	FromSplit   bool            `json:"fromSplit"`
	Status      game.HandStatus `json:"status"`
	Outcome     game.Outcome    `json:"outcome,omitempty"`
	Payout      int64           `json:"payout"`
}

type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Chips     int64  `json:"chips"`
	Connected bool   `json:"connected"`
	IsMe      bool   `json:"isMe"`

	Bet        int64 `json:"bet"`
	CurrentBet int64 `json:"currentBet"`
	BetReady   bool  `json:"betReady"`

	Hands           []HandView `json:"hands"`
	ActiveHandIndex int        `json:"activeHandIndex"`
	// ActiveHand mirrors Hands[ActiveHandIndex] and is nil outside a round.
	ActiveHand *HandView `json:"activeHand"`

	Insurance        int64 `json:"insurance"`
	InsuranceDecided bool  `json:"insuranceDecided"`

	Result game.RoundResult `json:"result,omitempty"`
	Net    int64            `json:"net"`
}

type DealerView struct {
	Cards  []game.CardJSON `json:"cards"`
	Score  int             `json:"score"`
	Hidden bool            `json:"hidden"`
}

// TableView is one viewer's sanitized copy of a blackjack table.
type TableView struct {
	Phase              game.Phase       `json:"phase"`
	Round              int              `json:"round"`
	Players            []PlayerView     `json:"players"`
	Dealer             DealerView       `json:"dealer"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
	CurrentHandIndex   int              `json:"currentHandIndex"`
	ShoeRemaining      int              `json:"shoeRemaining"`
	ShoeTotal          int              `json:"shoeTotal"`
	DiscardCount       int              `json:"discardCount"`
	ReadyVotes         []string         `json:"readyVotes"`
	AvailableActions   game.Actions     `json:"availableActions"`
	Settlement         *game.Settlement `json:"settlement,omitempty"`
}

// BuildTableView projects g for viewerID. The dealer's hole card is replaced
// with a placeholder while hidden and the shoe is reduced to counts.
func BuildTableView(g *game.Game, viewerID string) TableView {
	out := TableView{
		Phase:              g.Phase,
		Round:              g.Round,
		Players:            make([]PlayerView, 0, len(g.Players)),
		Dealer:             buildDealer(&g.Dealer),
		CurrentPlayerIndex: -1,
		CurrentHandIndex:   -1,
		ShoeRemaining:      g.Shoe().Remaining(),
		ShoeTotal:          g.Shoe().Total(),
		DiscardCount:       g.Shoe().DiscardLen(),
		ReadyVotes:         g.ReadyVotes.List(),
		AvailableActions:   g.AvailableActions(viewerID),
	}
	if p := g.ActingPlayer(); p != nil {
		out.CurrentPlayerIndex = g.Turn
		out.CurrentHandIndex = p.ActiveHand
	}
	if g.Phase == game.PhaseRoundOver {
		out.Settlement = g.LastSettlement()
	}
	for _, p := range g.Players {
		out.Players = append(out.Players, buildPlayer(p, viewerID))
	}
	return out
}

func buildPlayer(p *game.Player, viewerID string) PlayerView {
	pv := PlayerView{
		ID:               p.ID,
		Name:             p.Name,
		Chips:            p.Chips,
		Connected:        p.Connected,
		IsMe:             p.ID == viewerID,
		Bet:              p.Bet,
		CurrentBet:       p.Staked(),
		BetReady:         p.BetReady,
		Hands:            make([]HandView, 0, len(p.Hands)),
		ActiveHandIndex:  p.ActiveHand,
		Insurance:        p.Insurance,
		InsuranceDecided: p.InsuranceDecided,
		Result:           p.Result,
		Net:              p.Net,
	}
	for _, h := range p.Hands {
		pv.Hands = append(pv.Hands, buildHand(h))
	}
	if p.ActiveHand >= 0 && p.ActiveHand < len(pv.Hands) {
		active := pv.Hands[p.ActiveHand]
		pv.ActiveHand = &active
	}
	return pv
}

func buildHand(h *game.Hand) HandView {
	return HandView{
		Cards:       cardsJSON(h.Cards),
		Score:       h.Score(),
		Bet:         h.Bet,
		Doubled:     h.Doubled,
		Surrendered: h.Surrendered,
		FromSplit:   h.FromSplit,
		Status:      h.Status,
		Outcome:     h.Outcome,
		Payout:      h.Payout,
	}
}

func buildDealer(d *game.Dealer) DealerView {
	dv := DealerView{Hidden: d.Hidden, Score: d.VisibleScore()}
	if d.Hidden && len(d.Cards) > 1 {
		dv.Cards = []game.CardJSON{d.Cards[0].JSON(), game.HiddenCard}
		return dv
	}
	dv.Cards = cardsJSON(d.Cards)
	return dv
}

func cardsJSON(cards []game.Card) []game.CardJSON {
	out := make([]game.CardJSON, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.JSON())
	}
	return out
}

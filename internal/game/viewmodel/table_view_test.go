package viewmodel

import (
	"encoding/json"
	"strings"
	"testing"

	"card-parlor/internal/game"
)

func newGame(t *testing.T, cards ...string) *game.Game {
	t.Helper()
	seats := []game.Seat{{ID: "p1", Name: "Ann", Connected: true}, {ID: "p2", Name: "Bo", Connected: true}}
	shoe := game.NewStackedShoe(game.MustCards(cards...), game.DefaultReshuffleRatio, nil)
	return game.NewGame(game.Config{}, seats, shoe)
}

func TestBuildTableViewHidesHoleCard(t *testing.T) {
	g := newGame(t, "10H", "9S", "10S", "7D", "8D", "QC")
	if err := g.PlaceBet("p1", 100); err != nil {
		t.Fatalf("bet: %v", err)
	}
	if err := g.PlaceBet("p2", 50); err != nil {
		t.Fatalf("bet: %v", err)
	}

	view := BuildTableView(g, "p2")
	if len(view.Dealer.Cards) != 2 {
		t.Fatalf("expected 2 dealer cards, got %d", len(view.Dealer.Cards))
	}
	if view.Dealer.Cards[1] != game.HiddenCard {
		t.Fatalf("hole card leaked: %+v", view.Dealer.Cards[1])
	}
	if view.Dealer.Score != 10 {
		t.Fatalf("dealer score should only count the up-card, got %d", view.Dealer.Score)
	}
	b, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), `"value":"Q"`) {
		t.Fatalf("serialized view contains the hole card: %s", b)
	}
	if strings.Contains(string(b), `"cards":[{"suit":"S","value":"10"},{"suit":"C"`) {
		t.Fatalf("serialized view contains the hole card suit: %s", b)
	}
}

func TestBuildTableViewPerViewer(t *testing.T) {
	g := newGame(t, "10H", "9S", "10S", "7D", "8D", "QC")
	_ = g.PlaceBet("p1", 100)
	_ = g.PlaceBet("p2", 50)

	v1 := BuildTableView(g, "p1")
	v2 := BuildTableView(g, "p2")
	if !v1.Players[0].IsMe || v1.Players[1].IsMe {
		t.Fatalf("isMe wrong for p1: %+v", v1.Players)
	}
	if v2.Players[0].IsMe || !v2.Players[1].IsMe {
		t.Fatalf("isMe wrong for p2: %+v", v2.Players)
	}
	if !v1.AvailableActions.Hit || v2.AvailableActions.Hit {
		t.Fatalf("only p1 should be able to hit: %+v / %+v", v1.AvailableActions, v2.AvailableActions)
	}
	if v1.CurrentPlayerIndex != 0 || v1.CurrentHandIndex != 0 {
		t.Fatalf("unexpected turn %d/%d", v1.CurrentPlayerIndex, v1.CurrentHandIndex)
	}
	if v1.Players[0].ActiveHand == nil || v1.Players[0].ActiveHand.Score != 17 {
		t.Fatalf("unexpected active hand %+v", v1.Players[0].ActiveHand)
	}
	if v1.Players[1].CurrentBet != 50 || v1.Players[1].Chips != 950 {
		t.Fatalf("unexpected p2 money %+v", v1.Players[1])
	}
}

func TestBuildTableViewShoeCountsOnly(t *testing.T) {
	g := newGame(t, "10H", "9S", "10S", "7D", "8D", "QC", "2H", "3H")
	_ = g.PlaceBet("p1", 100)
	_ = g.PlaceBet("p2", 50)

	view := BuildTableView(g, "p1")
	if view.ShoeRemaining != 2 || view.ShoeTotal != 8 || view.DiscardCount != 0 {
		t.Fatalf("unexpected shoe counts %d/%d/%d", view.ShoeRemaining, view.ShoeTotal, view.DiscardCount)
	}
	b, _ := json.Marshal(view)
	if strings.Contains(string(b), `"shoe"`) {
		t.Fatalf("shoe contents serialized: %s", b)
	}
}

func TestBuildTableViewRevealsAfterRound(t *testing.T) {
	g := newGame(t, "10H", "9S", "10S", "7D", "8D", "QC")
	_ = g.PlaceBet("p1", 100)
	_ = g.PlaceBet("p2", 50)
	_ = g.Stand("p1")
	_ = g.Stand("p2")
	if _, err := g.PlayDealer(); err != nil {
		t.Fatalf("dealer: %v", err)
	}
	if err := g.VoteNextHand("p2"); err != nil {
		t.Fatalf("vote: %v", err)
	}

	view := BuildTableView(g, "p1")
	if view.Dealer.Hidden || view.Dealer.Cards[1].Value != "Q" {
		t.Fatalf("dealer should be revealed: %+v", view.Dealer)
	}
	if view.Settlement == nil || len(view.Settlement.Players) != 2 {
		t.Fatalf("expected settlement for both players")
	}
	if len(view.ReadyVotes) != 1 || view.ReadyVotes[0] != "p2" {
		t.Fatalf("unexpected ready votes %v", view.ReadyVotes)
	}
	if view.CurrentPlayerIndex != -1 {
		t.Fatalf("no one acts after the round, got %d", view.CurrentPlayerIndex)
	}
	if !view.AvailableActions.VoteNextHand {
		t.Fatal("p1 should be able to vote")
	}
}

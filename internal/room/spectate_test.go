package room

import (
	"errors"
	"testing"

	"card-parlor/internal/game"
)

func TestSpectatorFeedMirrorsTableWithoutSeat(t *testing.T) {
	h := newHarness(t, Options{}, "10H", "6S", "9D", "5C", "3D", "4H")
	res, _ := h.m.CreateRoom("c1", "Ann", "")

	if _, err := h.m.SpectatorState(res.Code); !errors.Is(err, ErrNoActiveGame) {
		t.Fatalf("lobby should have no spectator state, got %v", err)
	}
	if _, err := h.m.SpectatorFeed("nope"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected invalid code, got %v", err)
	}
	if _, err := h.m.SpectatorFeed("ZZZZZZ"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected room_not_found, got %v", err)
	}

	feed, err := h.m.SpectatorFeed(res.Code)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	sub := feed.Subscribe()

	if err := h.m.StartGame("c1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := h.m.PlaceBet("c1", 100); err != nil {
		t.Fatalf("bet: %v", err)
	}

	replay := feed.ReplayAfter("")
	if len(replay) != 2 || replay[0].Event != EventGameStarted || replay[1].Event != EventBlackjackUpdate {
		t.Fatalf("unexpected spectator replay %+v", replay)
	}
	first := <-sub
	if first.EventID != replay[0].EventID {
		t.Fatalf("live subscriber missed the first event: %+v", first)
	}

	view, err := h.m.SpectatorState(res.Code)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if view.Phase != game.PhasePlaying || !view.Dealer.Hidden {
		t.Fatalf("unexpected spectator view phase=%s hidden=%v", view.Phase, view.Dealer.Hidden)
	}
	if view.Dealer.Cards[1] != game.HiddenCard {
		t.Fatalf("hole card leaked to spectators: %+v", view.Dealer.Cards)
	}
	for _, p := range view.Players {
		if p.IsMe {
			t.Fatalf("spectator view must not mark a seat as self: %+v", p)
		}
	}
	if view.AvailableActions != (game.Actions{}) {
		t.Fatalf("spectators get no actions, got %+v", view.AvailableActions)
	}

	h.m.Close()
	for range sub {
	}
	if _, err := h.m.SpectatorFeed(res.Code); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("deleted room should have no feed, got %v", err)
	}
}

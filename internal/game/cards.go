package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

type Suit int

type Rank int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

var rankLabels = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8", Nine: "9",
	Ten: "10", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

var suitLabels = map[Suit]string{Spades: "S", Hearts: "H", Diamonds: "D", Clubs: "C"}

type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return rankLabels[c.Rank] + suitLabels[c.Suit]
}

// Value is the blackjack pip value with the Ace counted high.
func (c Card) Value() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

// RankGroup folds the ten-valued ranks together for split eligibility.
func (c Card) RankGroup() string {
	if c.Rank >= Ten && c.Rank <= King {
		return "10"
	}
	return rankLabels[c.Rank]
}

// CardJSON is the wire shape of a card. Hidden cards use "?" for both fields.
type CardJSON struct {
	Suit  string `json:"suit"`
	Value string `json:"value"`
}

var HiddenCard = CardJSON{Suit: "?", Value: "?"}

func (c Card) JSON() CardJSON {
	return CardJSON{Suit: suitLabels[c.Suit], Value: rankLabels[c.Rank]}
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.JSON())
}

func (c *Card) UnmarshalJSON(b []byte) error {
	var raw CardJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseCard(raw.Value + raw.Suit)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

var errBadCard = errors.New("invalid_card")

// ParseCard accepts the String form, e.g. "AS", "10H", "QD".
func ParseCard(s string) (Card, error) {
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: %q", errBadCard, s)
	}
	rs, ss := s[:len(s)-1], s[len(s)-1:]
	var out Card
	found := false
	for r, label := range rankLabels {
		if label == rs {
			out.Rank = r
			found = true
			break
		}
	}
	if !found {
		return Card{}, fmt.Errorf("%w: %q", errBadCard, s)
	}
	found = false
	for suit, label := range suitLabels {
		if label == ss {
			out.Suit = suit
			found = true
			break
		}
	}
	if !found {
		return Card{}, fmt.Errorf("%w: %q", errBadCard, s)
	}
	return out, nil
}

// MustCards parses a space separated card list and panics on bad input.
// Meant for tests and fixtures.
func MustCards(list ...string) []Card {
	out := make([]Card, 0, len(list))
	for _, s := range list {
		c, err := ParseCard(s)
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}

func newDeck() []Card {
	cards := make([]Card, 0, 52)
	for s := Spades; s <= Clubs; s++ {
		for r := Two; r <= Ace; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return cards
}

// Score sums pip values and drops Aces from 11 to 1 while the total is over 21.
// soft reports whether an Ace is still counted as 11.
func Score(cards []Card) (total int, soft bool) {
	aces := 0
	for _, c := range cards {
		total += c.Value()
		if c.Rank == Ace {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}

func ScoreOf(cards []Card) int {
	total, _ := Score(cards)
	return total
}

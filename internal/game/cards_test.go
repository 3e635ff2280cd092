package game

import (
	"math/rand"
	"testing"
)

func TestScoreSoftReduction(t *testing.T) {
	cases := []struct {
		cards []string
		want  int
		soft  bool
	}{
		{[]string{"AS", "KH"}, 21, true},
		{[]string{"AS", "AH"}, 12, true},
		{[]string{"AS", "AH", "9C"}, 21, true},
		{[]string{"AS", "AH", "AD", "AC"}, 14, true},
		{[]string{"AS", "9H", "5C"}, 15, false},
		{[]string{"KS", "QH", "2C"}, 22, false},
		{[]string{"5S", "6H"}, 11, false},
	}
	for _, tc := range cases {
		total, soft := Score(MustCards(tc.cards...))
		if total != tc.want || soft != tc.soft {
			t.Fatalf("Score(%v) = %d soft=%v, want %d soft=%v", tc.cards, total, soft, tc.want, tc.soft)
		}
	}
}

func TestScoreMatchesBestAceAssignment(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	deck := newDeck()
	for i := 0; i < 5000; i++ {
		n := 1 + rnd.Intn(8)
		cards := make([]Card, n)
		for j := range cards {
			cards[j] = deck[rnd.Intn(len(deck))]
		}
		hard, aces := 0, 0
		for _, c := range cards {
			if c.Rank == Ace {
				hard++
				aces++
				continue
			}
			hard += c.Value()
		}
		want := hard
		if aces > 0 && hard+10 <= 21 {
			want = hard + 10
		}
		got, soft := Score(cards)
		if got != want {
			t.Fatalf("Score(%v) = %d, want %d", cards, got, want)
		}
		if soft && got > 21 {
			t.Fatalf("soft hand over 21: %v = %d", cards, got)
		}
		if soft != (aces > 0 && hard+10 <= 21) {
			t.Fatalf("soft flag mismatch for %v", cards)
		}
	}
}

func TestRankGroupTreatsTensAlike(t *testing.T) {
	tens := MustCards("10S", "JH", "QD", "KC")
	for _, a := range tens {
		for _, b := range tens {
			if a.RankGroup() != b.RankGroup() {
				t.Fatalf("%s and %s should share a rank group", a, b)
			}
		}
	}
	if MustCards("8S")[0].RankGroup() == MustCards("9S")[0].RankGroup() {
		t.Fatal("8 and 9 must not share a rank group")
	}
}

func TestParseCardRoundTrip(t *testing.T) {
	for _, c := range newDeck() {
		parsed, err := ParseCard(c.String())
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", c.String(), err)
		}
		if parsed != c {
			t.Fatalf("ParseCard(%q) = %v", c.String(), parsed)
		}
	}
	if _, err := ParseCard("1X"); err == nil {
		t.Fatal("expected error for bad card")
	}
}

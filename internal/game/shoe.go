package game

import (
	"math/rand"
	"time"
)

const DefaultReshuffleRatio = 0.25

// Shoe is the multi-deck draw pile plus its discard. Cards are drawn from the
// front, so the slice order is the draw order.
type Shoe struct {
	cards      []Card
	discard    []Card
	total      int
	ratio      float64
	rnd        *rand.Rand
	reshuffles int
}

func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func NewShoe(decks int, ratio float64, rnd *rand.Rand) *Shoe {
	if decks <= 0 {
		decks = 6
	}
	cards := make([]Card, 0, decks*52)
	for i := 0; i < decks; i++ {
		cards = append(cards, newDeck()...)
	}
	s := newShoe(cards, ratio, rnd)
	s.shuffle()
	return s
}

// NewStackedShoe keeps the given order. Used to script deals.
func NewStackedShoe(cards []Card, ratio float64, rnd *rand.Rand) *Shoe {
	return newShoe(append([]Card(nil), cards...), ratio, rnd)
}

func newShoe(cards []Card, ratio float64, rnd *rand.Rand) *Shoe {
	if ratio <= 0 || ratio >= 1 {
		ratio = DefaultReshuffleRatio
	}
	if rnd == nil {
		rnd = NewRand()
	}
	return &Shoe{cards: cards, total: len(cards), ratio: ratio, rnd: rnd}
}

func (s *Shoe) Remaining() int  { return len(s.cards) }
func (s *Shoe) Total() int      { return s.total }
func (s *Shoe) DiscardLen() int { return len(s.discard) }
func (s *Shoe) Reshuffles() int { return s.reshuffles }

// CanDraw reports whether n cards are obtainable, counting the discard that
// would be folded back in.
func (s *Shoe) CanDraw(n int) bool {
	return len(s.cards)+len(s.discard) >= n
}

func (s *Shoe) Draw() (Card, error) {
	if len(s.cards) == 0 {
		s.reshuffle()
	}
	if len(s.cards) == 0 {
		return Card{}, ErrShoeEmpty
	}
	c := s.cards[0]
	s.cards = s.cards[1:]
	if s.belowPenetration() && len(s.discard) > 0 {
		s.reshuffle()
	}
	return c, nil
}

func (s *Shoe) Discard(cards ...Card) {
	s.discard = append(s.discard, cards...)
}

func (s *Shoe) belowPenetration() bool {
	return float64(len(s.cards)) < float64(s.total)*s.ratio
}

func (s *Shoe) reshuffle() {
	if len(s.discard) == 0 {
		return
	}
	s.cards = append(s.cards, s.discard...)
	s.discard = nil
	s.shuffle()
	s.reshuffles++
}

func (s *Shoe) shuffle() {
	s.rnd.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

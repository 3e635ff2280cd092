package game

type Phase string

const (
	PhaseBetting    Phase = "betting"
	PhaseInsurance  Phase = "insurance"
	PhasePlaying    Phase = "playing"
	PhaseDealerTurn Phase = "dealerTurn"
	PhaseRoundOver  Phase = "roundOver"
)

type HandStatus string

const (
	HandPlaying     HandStatus = "playing"
	HandStanding    HandStatus = "standing"
	HandBusted      HandStatus = "busted"
	HandBlackjack   HandStatus = "blackjack"
	HandTwentyOne   HandStatus = "twentyOne"
	HandSurrendered HandStatus = "surrendered"
)

// Outcome is the settled result of a single hand.
type Outcome string

const (
	OutcomeWin       Outcome = "win"
	OutcomeBlackjack Outcome = "blackjack"
	OutcomePush      Outcome = "push"
	OutcomeLoss      Outcome = "loss"
	OutcomeSurrender Outcome = "surrender"
)

// RoundResult aggregates a player's hand outcomes for one round.
type RoundResult string

const (
	ResultWin       RoundResult = "win"
	ResultPush      RoundResult = "push"
	ResultSurrender RoundResult = "surrender"
	ResultLoss      RoundResult = "loss"
)

const MaxHandsPerPlayer = 4

type Hand struct {
	Cards       []Card
	Bet         int64
	Doubled     bool
	Surrendered bool
	FromSplit   bool
	Status      HandStatus
	Outcome     Outcome
	Payout      int64
}

func (h *Hand) Score() int { return ScoreOf(h.Cards) }

// IsNatural is a two-card 21 on an original, unsplit hand.
func (h *Hand) IsNatural() bool {
	return !h.FromSplit && len(h.Cards) == 2 && h.Score() == 21
}

func (h *Hand) terminal() bool { return h.Status != HandPlaying }

type Player struct {
	ID        string
	Name      string
	Chips     int64
	Connected bool

	// Bet is the main stake placed during betting. It stays set for the
	// round so insurance can be bounded against it.
	Bet      int64
	BetReady bool

	Hands      []*Hand
	ActiveHand int

	Insurance        int64
	InsuranceDecided bool
	InsurancePayout  int64

	Result RoundResult
	Net    int64
}

// CurrentHand returns the hand the player is acting on, or nil.
func (p *Player) CurrentHand() *Hand {
	if p.ActiveHand < 0 || p.ActiveHand >= len(p.Hands) {
		return nil
	}
	return p.Hands[p.ActiveHand]
}

// Staked is the total of chips currently committed on the table.
func (p *Player) Staked() int64 {
	if len(p.Hands) == 0 {
		return p.Bet + p.Insurance
	}
	total := p.Insurance
	for _, h := range p.Hands {
		total += h.Bet
	}
	return total
}

func (p *Player) inRound() bool { return len(p.Hands) > 0 }

type Dealer struct {
	Cards  []Card
	Hidden bool
}

func (d *Dealer) Score() int { return ScoreOf(d.Cards) }

// VisibleScore only counts the up-card while the hole card is hidden.
func (d *Dealer) VisibleScore() int {
	if d.Hidden && len(d.Cards) > 0 {
		return ScoreOf(d.Cards[:1])
	}
	return d.Score()
}

func (d *Dealer) IsNatural() bool {
	return len(d.Cards) == 2 && d.Score() == 21
}

func (d *Dealer) UpCard() (Card, bool) {
	if len(d.Cards) == 0 {
		return Card{}, false
	}
	return d.Cards[0], true
}

// Seat describes a room member when a game is created.
type Seat struct {
	ID        string
	Name      string
	Connected bool
}

type Config struct {
	StartingChips int64
	BegChips      int64
}

func (c Config) withDefaults() Config {
	if c.StartingChips <= 0 {
		c.StartingChips = 1000
	}
	if c.BegChips <= 0 {
		c.BegChips = 1000
	}
	return c
}

// Game is one room's blackjack table. It is not safe for concurrent use; the
// owning room serializes access.
type Game struct {
	Phase      Phase
	Players    []*Player
	Dealer     Dealer
	Turn       int
	ReadyVotes *PlayerSet
	Round      int

	cfg            Config
	shoe           *Shoe
	lastSettlement *Settlement
}

func NewGame(cfg Config, seats []Seat, shoe *Shoe) *Game {
	cfg = cfg.withDefaults()
	if shoe == nil {
		shoe = NewShoe(6, DefaultReshuffleRatio, nil)
	}
	g := &Game{
		Phase:      PhaseBetting,
		ReadyVotes: NewPlayerSet(),
		Round:      1,
		cfg:        cfg,
		shoe:       shoe,
	}
	for _, s := range seats {
		g.Players = append(g.Players, &Player{
			ID:        s.ID,
			Name:      s.Name,
			Chips:     cfg.StartingChips,
			Connected: s.Connected,
		})
	}
	return g
}

func (g *Game) Shoe() *Shoe { return g.shoe }

func (g *Game) Player(id string) (*Player, int) {
	for i, p := range g.Players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// ActingPlayer returns the player whose hand is up during PhasePlaying.
func (g *Game) ActingPlayer() *Player {
	if g.Phase != PhasePlaying || g.Turn < 0 || g.Turn >= len(g.Players) {
		return nil
	}
	return g.Players[g.Turn]
}

// CardsInPlay counts cards held by hands and the dealer.
func (g *Game) CardsInPlay() int {
	n := len(g.Dealer.Cards)
	for _, p := range g.Players {
		for _, h := range p.Hands {
			n += len(h.Cards)
		}
	}
	return n
}

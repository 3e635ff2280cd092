package room

import (
	"strings"
	"sync"

	"card-parlor/internal/game"
	"card-parlor/internal/spectate"
)

type GameKind string

const (
	KindBlackjack  GameKind = "blackjack"
	KindMind       GameKind = "mind"
	KindMinimalist GameKind = "minimalist"
)

func ParseGameKind(s string) (GameKind, error) {
	switch k := GameKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindBlackjack, nil
	case KindBlackjack, KindMind, KindMinimalist:
		return k, nil
	default:
		return "", ErrUnsupportedGame
	}
}

// Member is a room-level player record. ID is the current connection id and
// changes when the player reconnects.
type Member struct {
	ID        string
	Name      string
	Connected bool
}

// Room owns one table. Every field below mu is guarded by it.
type Room struct {
	Code string

	mu          sync.Mutex
	hostID      string
	kind        GameKind
	members     []*Member
	game        *game.Game
	dealer      *dealerTask
	deleteTimer Timer
	deleteGen   int
	closed      bool

	feed *spectate.EventBuffer
}

func (r *Room) memberLocked(id string) *Member {
	for _, m := range r.members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// ghostLocked finds a disconnected member whose name matches, ignoring case.
func (r *Room) ghostLocked(name string) *Member {
	for _, m := range r.members {
		if !m.Connected && strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

func (r *Room) nameTakenLocked(name string) bool {
	for _, m := range r.members {
		if strings.EqualFold(m.Name, name) {
			return true
		}
	}
	return false
}

func (r *Room) connectedLocked() int {
	n := 0
	for _, m := range r.members {
		if m.Connected {
			n++
		}
	}
	return n
}

func (r *Room) removeMemberLocked(id string) {
	for i, m := range r.members {
		if m.ID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return
		}
	}
}

// reassignHostLocked hands the host role to the first connected member when
// the current host is gone. It reports whether the host changed.
func (r *Room) reassignHostLocked() bool {
	if h := r.memberLocked(r.hostID); h != nil && h.Connected {
		return false
	}
	for _, m := range r.members {
		if m.Connected {
			r.hostID = m.ID
			return true
		}
	}
	return false
}

func (r *Room) cancelDeletionLocked() {
	if r.deleteTimer != nil {
		r.deleteTimer.Stop()
		r.deleteTimer = nil
	}
	r.deleteGen++
}

func (r *Room) cancelDealerLocked() {
	if r.dealer != nil {
		if r.dealer.timer != nil {
			r.dealer.timer.Stop()
		}
		r.dealer = nil
	}
}

func (r *Room) membersLocked() []MemberView {
	out := make([]MemberView, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, MemberView{ID: m.ID, Name: m.Name, Connected: m.Connected, IsHost: m.ID == r.hostID})
	}
	return out
}

func (r *Room) statusLocked() string {
	if r.game == nil {
		return "lobby"
	}
	return string(r.game.Phase)
}

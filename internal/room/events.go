package room

import "card-parlor/internal/game/viewmodel"

// Server push event names.
const (
	EventPlayerJoined       = "playerJoined"
	EventHostChanged        = "hostChanged"
	EventPlayerDisconnected = "playerDisconnected"
	EventGameStarted        = "gameStarted"
	EventBlackjackUpdate    = "blackjackUpdate"
)

// Broadcaster delivers a push to one connection. Send is called with the
// room lock held and must not block or call back into the Manager.
type Broadcaster interface {
	Send(connID, event string, payload any)
}

type MemberView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
	IsHost    bool   `json:"isHost"`
}

type JoinResult struct {
	Code        string       `json:"code"`
	Players     []MemberView `json:"players"`
	IsHost      bool         `json:"isHost"`
	Reconnected bool         `json:"reconnected"`
}

type PlayerJoined struct {
	Player      MemberView   `json:"player"`
	Players     []MemberView `json:"players"`
	Reconnected bool         `json:"reconnected"`
}

type HostChanged struct {
	HostID string `json:"hostId"`
}

type PlayerDisconnected struct {
	PlayerID string       `json:"playerId"`
	Name     string       `json:"name"`
	Removed  bool         `json:"removed"`
	Players  []MemberView `json:"players"`
}

type GameStarted struct {
	GameKind  GameKind            `json:"gameKind"`
	GameState viewmodel.TableView `json:"gameState"`
}

// LastAction tells clients what produced a blackjackUpdate.
type LastAction struct {
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name,omitempty"`
	Type     string `json:"type"`
	Amount   int64  `json:"amount,omitempty"`
}

type BlackjackUpdate struct {
	GameState  viewmodel.TableView `json:"gameState"`
	LastAction LastAction          `json:"lastAction"`
}

// Status is the public summary served over HTTP.
type Status struct {
	Code        string   `json:"code"`
	GameKind    GameKind `json:"gameKind"`
	PlayerCount int      `json:"playerCount"`
	MaxPlayers  int      `json:"maxPlayers"`
	Status      string   `json:"status"`
}

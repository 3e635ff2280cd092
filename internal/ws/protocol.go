package ws

import (
	"encoding/json"

	"card-parlor/internal/room"
)

// Client to server events.
const (
	EventCreateRoom            = "createRoom"
	EventJoinRoom              = "joinRoom"
	EventStartGame             = "startGame"
	EventBlackjackAction       = "blackjackAction"
	EventBlackjackPlaceBet     = "blackjackPlaceBet"
	EventBlackjackVoteNextHand = "blackjackVoteNextHand"
	EventBlackjackBeg          = "blackjackBegForMoney"

	// EventAck carries the reply to a request that set an ack id.
	EventAck = "ack"
)

// Envelope is the frame shape in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Ack   *int64          `json:"ack,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string `json:"event"`
	Ack   *int64 `json:"ack,omitempty"`
	Data  any    `json:"data"`
}

type CreateRoomRequest struct {
	Name     string `json:"name"`
	GameKind string `json:"gameKind"`
}

type JoinRoomRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type ActionRequest struct {
	Action string `json:"action"`
	Amount int64  `json:"amount"`
}

type PlaceBetRequest struct {
	Amount int64 `json:"amount"`
}

type BegRequest struct {
	Message string `json:"message"`
}

// AckResult is the callback payload. Only the fields relevant to the request
// are set.
type AckResult struct {
	Success     bool              `json:"success"`
	Error       string            `json:"error,omitempty"`
	Code        string            `json:"code,omitempty"`
	Players     []room.MemberView `json:"players,omitempty"`
	IsHost      *bool             `json:"isHost,omitempty"`
	Reconnected bool              `json:"reconnected,omitempty"`
	Chips       *int64            `json:"chips,omitempty"`
}

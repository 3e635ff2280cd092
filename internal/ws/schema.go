package ws

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
)

// protocolCatalog lists every request payload by event name plus the ack
// reply, so one document describes the client contract.
type protocolCatalog struct {
	CreateRoom           CreateRoomRequest `json:"createRoom"`
	JoinRoom             JoinRoomRequest   `json:"joinRoom"`
	BlackjackAction      ActionRequest     `json:"blackjackAction"`
	BlackjackPlaceBet    PlaceBetRequest   `json:"blackjackPlaceBet"`
	BlackjackBegForMoney BegRequest        `json:"blackjackBegForMoney"`
	Ack                  AckResult         `json:"ack"`
}

var (
	schemaOnce sync.Once
	schemaDoc  []byte
	schemaErr  error
)

// ProtocolSchema returns the JSON schema of the websocket payloads.
func ProtocolSchema() ([]byte, error) {
	schemaOnce.Do(func() {
		r := &jsonschema.Reflector{
			Anonymous:      true,
			DoNotReference: true,
			ExpandedStruct: true,
		}
		s := r.Reflect(&protocolCatalog{})
		s.Title = "card-parlor websocket payloads v1"
		schemaDoc, schemaErr = json.MarshalIndent(s, "", "  ")
	})
	return schemaDoc, schemaErr
}

package ws

import (
	"errors"

	"card-parlor/internal/game"
	"card-parlor/internal/room"
)

var (
	errBadPayload   = errors.New("invalid_payload")
	errUnknownEvent = errors.New("unknown_event")
)

var knownErrors = []error{
	room.ErrRoomNotFound, room.ErrRoomFull, room.ErrGameInProgress, room.ErrInvalidName,
	room.ErrNameTaken, room.ErrInvalidCode, room.ErrNotHost, room.ErrNotInRoom,
	room.ErrAlreadyInRoom, room.ErrUnsupportedGame, room.ErrNoActiveGame, room.ErrUnknownAction,
	game.ErrNotYourTurn, game.ErrInvalidPhase, game.ErrInvalidAction, game.ErrInsufficientChips,
	game.ErrShoeEmpty, game.ErrInvalidBet, game.ErrInvalidInsurance, game.ErrAlreadyDecided,
	game.ErrCannotDouble, game.ErrCannotSplit, game.ErrCannotSurrender, game.ErrBegRejected,
	game.ErrPlayerNotFound, errBadPayload, errUnknownEvent,
}

// errorCode maps an error onto its wire code.
func errorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal_error"
}

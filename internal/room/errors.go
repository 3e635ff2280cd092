package room

import "errors"

var (
	ErrRoomNotFound    = errors.New("room_not_found")
	ErrRoomFull        = errors.New("room_full")
	ErrGameInProgress  = errors.New("game_in_progress")
	ErrInvalidName     = errors.New("invalid_name")
	ErrNameTaken       = errors.New("name_taken")
	ErrInvalidCode     = errors.New("invalid_code")
	ErrNotHost         = errors.New("not_host")
	ErrNotInRoom       = errors.New("not_in_room")
	ErrAlreadyInRoom   = errors.New("already_in_room")
	ErrUnsupportedGame = errors.New("unsupported_game")
	ErrNoActiveGame    = errors.New("no_active_game")
	ErrUnknownAction   = errors.New("unknown_action")
)

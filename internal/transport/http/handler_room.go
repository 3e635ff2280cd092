package httptransport

import (
	"context"
	"errors"
	"net/http"

	"card-parlor/internal/room"
	"card-parlor/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// RoomDirectory is the read side of the room registry.
type RoomDirectory interface {
	Status(code string) (room.Status, error)
	RoomCount() int
}

// RoundHistory is the optional Postgres round archive.
type RoundHistory interface {
	Ping(ctx context.Context) error
	ListRounds(ctx context.Context, roomCode string, limit int) ([]store.RoundRecord, error)
	GetRound(ctx context.Context, id string) (store.RoundRecord, error)
}

type RoomHandlers struct {
	rooms   RoomDirectory
	history RoundHistory
}

// NewRoomHandlers builds the public handlers. history may be nil.
func NewRoomHandlers(rooms RoomDirectory, history RoundHistory) *RoomHandlers {
	return &RoomHandlers{rooms: rooms, history: history}
}

func (h *RoomHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"ok": true, "rooms": h.rooms.RoomCount(), "db": "disabled"}
		if h.history != nil {
			if err := h.history.Ping(r.Context()); err != nil {
				resp["ok"] = false
				resp["db"] = "down"
				writeJSON(w, http.StatusServiceUnavailable, resp)
				return
			}
			resp["db"] = "up"
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *RoomHandlers) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricRoomLookupTotal.Add(1)
		st, err := h.rooms.Status(chi.URLParam(r, "code"))
		if err != nil {
			metricRoomLookupMisses.Add(1)
			switch {
			case errors.Is(err, room.ErrInvalidCode):
				WriteHTTPError(w, http.StatusBadRequest, "invalid_code")
			case errors.Is(err, room.ErrRoomNotFound):
				WriteHTTPError(w, http.StatusNotFound, "room_not_found")
			default:
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			}
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func (h *RoomHandlers) Rounds() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.history == nil {
			WriteHTTPError(w, http.StatusNotFound, "history_disabled")
			return
		}
		code, err := room.NormalizeCode(chi.URLParam(r, "code"))
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_code")
			return
		}
		limit := ParseLimit(r, 20, 100)
		historyQueryTotal.Add(1)
		items, err := h.history.ListRounds(r.Context(), code, limit)
		if err != nil {
			historyQueryErrorsTotal.Add(1)
			log.Error().Err(err).Str("room", code).Msg("list_rounds_failed")
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		if items == nil {
			items = []store.RoundRecord{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "limit": limit})
	}
}

func (h *RoomHandlers) Round() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.history == nil {
			WriteHTTPError(w, http.StatusNotFound, "history_disabled")
			return
		}
		historyQueryTotal.Add(1)
		rec, err := h.history.GetRound(r.Context(), chi.URLParam(r, "round_id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "round_not_found")
				return
			}
			historyQueryErrorsTotal.Add(1)
			log.Error().Err(err).Msg("get_round_failed")
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

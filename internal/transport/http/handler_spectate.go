package httptransport

import (
	"errors"
	"expvar"
	"net/http"
	"time"

	"card-parlor/internal/game/viewmodel"
	"card-parlor/internal/room"
	"card-parlor/internal/spectate"

	"github.com/go-chi/chi/v5"
)

var spectatorPingInterval = 15 * time.Second

var (
	metricSpectatorSSEConnectionsTotal  = expvar.NewInt("spectator_sse_connections_total")
	metricSpectatorSSEConnectionsActive = expvar.NewInt("spectator_sse_connections_active")
)

// Spectators is the read-only table feed of the room registry.
type Spectators interface {
	SpectatorFeed(code string) (*spectate.EventBuffer, error)
	SpectatorState(code string) (viewmodel.TableView, error)
}

func writeRoomError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, room.ErrInvalidCode):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_code")
	case errors.Is(err, room.ErrRoomNotFound):
		WriteHTTPError(w, http.StatusNotFound, "room_not_found")
	case errors.Is(err, room.ErrNoActiveGame):
		WriteHTTPError(w, http.StatusConflict, "no_active_game")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}

func SpectatorStateHandler(src Spectators) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := src.SpectatorState(chi.URLParam(r, "code"))
		if err != nil {
			writeRoomError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func SpectatorEventsHandler(src Spectators) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buf, err := src.SpectatorFeed(chi.URLParam(r, "code"))
		if err != nil {
			writeRoomError(w, err)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			WriteHTTPError(w, http.StatusInternalServerError, "stream_not_supported")
			return
		}
		metricSpectatorSSEConnectionsTotal.Add(1)
		metricSpectatorSSEConnectionsActive.Add(1)
		defer metricSpectatorSSEConnectionsActive.Add(-1)

		spectate.SetSSEHeaders(w)
		w.WriteHeader(http.StatusOK)

		ch := buf.Subscribe()
		defer buf.Unsubscribe(ch)

		lastID := r.Header.Get("Last-Event-ID")
		for _, ev := range buf.ReplayAfter(lastID) {
			if err := spectate.WriteSSE(w, ev); err != nil {
				return
			}
			lastID = ev.EventID
		}
		flusher.Flush()

		ticker := time.NewTicker(spectatorPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.Context().Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				// Already sent during replay.
				if !spectate.Newer(ev.EventID, lastID) {
					continue
				}
				if err := spectate.WriteSSE(w, ev); err != nil {
					return
				}
				lastID = ev.EventID
				flusher.Flush()
			case <-ticker.C:
				ping := spectate.StreamEvent{
					Event:    "ping",
					ServerTS: time.Now().UnixMilli(),
					Data:     map[string]any{"ts": time.Now().UnixMilli()},
				}
				if err := spectate.WriteSSE(w, ping); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

package httptransport

import (
	"net/http"

	"card-parlor/internal/ws"
)

// ProtocolSchema serves the websocket payload schema for client authors.
func ProtocolSchema() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		doc, err := ws.ProtocolSchema()
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		w.Header().Set("Content-Type", "application/schema+json")
		_, _ = w.Write(doc)
	}
}

package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type RouterDeps struct {
	Rooms      RoomDirectory
	Spectators Spectators
	History    RoundHistory
	WS         http.HandlerFunc
}

func NewRouter(deps RouterDeps) *chi.Mux {
	rooms := NewRoomHandlers(deps.Rooms, deps.History)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", rooms.Health())
	if deps.WS != nil {
		// Upgrades hijack the connection; request logging would only see the 101.
		r.Get("/ws", deps.WS)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Use(JSONContentType)
		r.Get("/room/{code}", rooms.Status())
		r.Get("/room/{code}/rounds", rooms.Rounds())
		r.Get("/rounds/{round_id}", rooms.Round())
		r.Get("/schema/ws", ProtocolSchema())
		if deps.Spectators != nil {
			r.Get("/room/{code}/state", SpectatorStateHandler(deps.Spectators))
			r.Get("/room/{code}/events", SpectatorEventsHandler(deps.Spectators))
		}
	})

	r.Get("/debug/vars", expvar.Handler().ServeHTTP)
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	log.Debug().Msg(strings.TrimRight(b.String(), "\n"))
}

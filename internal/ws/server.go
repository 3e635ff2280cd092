package ws

import (
	"encoding/json"
	"expvar"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"card-parlor/internal/room"
	"card-parlor/internal/store"
)

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	maxFrameSize = 8 << 10
)

var (
	metricConnectionsTotal  = expvar.NewInt("ws_connections_total")
	metricConnectionsActive = expvar.NewInt("ws_connections_active")
	metricDroppedFrames     = expvar.NewInt("ws_dropped_frames_total")
)

// Rooms is the session bridge the server forwards events to.
type Rooms interface {
	CreateRoom(connID, name, kind string) (*room.JoinResult, error)
	JoinRoom(connID, code, name string) (*room.JoinResult, error)
	StartGame(connID string) error
	Action(connID, action string, amount int64) error
	PlaceBet(connID string, amount int64) error
	VoteNextHand(connID string) error
	Beg(connID, message string) (int64, error)
	Disconnect(connID string)
}

type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

type Server struct {
	rooms    Rooms
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*Client
}

// NewServer accepts websocket upgrades from the given origins. An empty list
// allows every origin.
func NewServer(allowedOrigins []string) *Server {
	allowed := map[string]bool{}
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			allowed[strings.ToLower(o)] = true
		}
	}
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return allowed[strings.ToLower(u.Scheme+"://"+u.Host)]
			},
		},
		clients: map[string]*Client{},
	}
}

// Attach wires the room registry. It must be called before serving.
func (s *Server) Attach(rooms Rooms) { s.rooms = rooms }

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws_upgrade_failed")
		return
	}
	client := &Client{id: store.NewID(), conn: conn, send: make(chan []byte, sendBuffer)}
	s.mu.Lock()
	s.clients[client.id] = client
	s.mu.Unlock()
	metricConnectionsTotal.Add(1)
	metricConnectionsActive.Add(1)
	log.Debug().Str("conn_id", client.id).Str("remote", r.RemoteAddr).Msg("ws_connected")

	go s.writeLoop(client)
	s.readLoop(client)
}

// Send implements room.Broadcaster. The payload is encoded immediately and
// dropped if the client's buffer is full.
func (s *Server) Send(connID, event string, payload any) {
	s.mu.Lock()
	c := s.clients[connID]
	s.mu.Unlock()
	if c == nil {
		return
	}
	msg, err := json.Marshal(outbound{Event: event, Data: payload})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("ws_encode_failed")
		return
	}
	if !safeSend(c.send, msg) {
		metricDroppedFrames.Add(1)
		log.Warn().Str("conn_id", connID).Str("event", event).Msg("ws_frame_dropped")
	}
}

func (s *Server) readLoop(c *Client) {
	defer func() {
		s.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			log.Debug().Err(err).Str("conn_id", c.id).Msg("ws_bad_frame")
			continue
		}
		res := s.dispatch(c, env)
		if env.Ack == nil {
			continue
		}
		out, err := json.Marshal(outbound{Event: EventAck, Ack: env.Ack, Data: res})
		if err != nil {
			continue
		}
		safeSend(c.send, out)
	}
}

func (s *Server) writeLoop(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch runs one request. A panic in a handler fails that request only.
func (s *Server) dispatch(c *Client, env Envelope) (res AckResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("conn_id", c.id).Str("event", env.Event).Str("panic", fmt.Sprint(r)).Msg("ws_handler_panic")
			res = AckResult{Error: "internal_error"}
		}
	}()

	switch env.Event {
	case EventCreateRoom:
		var req CreateRoomRequest
		if err := decode(env.Data, &req); err != nil {
			return fail(err)
		}
		joined, err := s.rooms.CreateRoom(c.id, req.Name, req.GameKind)
		if err != nil {
			return fail(err)
		}
		return joinAck(joined)
	case EventJoinRoom:
		var req JoinRoomRequest
		if err := decode(env.Data, &req); err != nil {
			return fail(err)
		}
		joined, err := s.rooms.JoinRoom(c.id, req.Code, req.Name)
		if err != nil {
			return fail(err)
		}
		return joinAck(joined)
	case EventStartGame:
		return result(s.rooms.StartGame(c.id))
	case EventBlackjackAction:
		var req ActionRequest
		if err := decode(env.Data, &req); err != nil {
			return fail(err)
		}
		return result(s.rooms.Action(c.id, req.Action, req.Amount))
	case EventBlackjackPlaceBet:
		var req PlaceBetRequest
		if err := decode(env.Data, &req); err != nil {
			return fail(err)
		}
		return result(s.rooms.PlaceBet(c.id, req.Amount))
	case EventBlackjackVoteNextHand:
		return result(s.rooms.VoteNextHand(c.id))
	case EventBlackjackBeg:
		var req BegRequest
		if err := decode(env.Data, &req); err != nil {
			return fail(err)
		}
		chips, err := s.rooms.Beg(c.id, req.Message)
		res := result(err)
		res.Chips = &chips
		return res
	default:
		return fail(errUnknownEvent)
	}
}

func (s *Server) unregister(c *Client) {
	s.mu.Lock()
	_, ok := s.clients[c.id]
	delete(s.clients, c.id)
	s.mu.Unlock()
	if !ok {
		return
	}
	metricConnectionsActive.Add(-1)
	log.Debug().Str("conn_id", c.id).Msg("ws_disconnected")
	if s.rooms != nil {
		s.rooms.Disconnect(c.id)
	}
	safeClose(c.send)
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return nil
}

func result(err error) AckResult {
	if err != nil {
		return fail(err)
	}
	return AckResult{Success: true}
}

func fail(err error) AckResult {
	return AckResult{Success: false, Error: errorCode(err)}
}

func joinAck(j *room.JoinResult) AckResult {
	isHost := j.IsHost
	return AckResult{Success: true, Code: j.Code, Players: j.Players, IsHost: &isHost, Reconnected: j.Reconnected}
}

func safeClose(ch chan []byte) {
	defer func() {
		_ = recover()
	}()
	close(ch)
}

// safeSend never blocks; a closed or full channel drops the frame.
func safeSend(ch chan []byte, msg []byte) (sent bool) {
	defer func() {
		if recover() != nil {
			sent = false
		}
	}()
	select {
	case ch <- msg:
		return true
	default:
		return false
	}
}

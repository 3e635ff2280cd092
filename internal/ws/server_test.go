package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"card-parlor/internal/game"
	"card-parlor/internal/room"
)

type testConn struct {
	t    *testing.T
	conn *websocket.Conn
	ack  atomic.Int64
}

func newTestServer(t *testing.T, cards ...string) (*httptest.Server, *room.Manager) {
	t.Helper()
	srv := NewServer(nil)
	m := room.NewManager(room.Options{
		DealerStep: time.Millisecond,
		ResultHold: time.Millisecond,
		NewShoe: func() *game.Shoe {
			return game.NewStackedShoe(game.MustCards(cards...), game.DefaultReshuffleRatio, game.NewRand())
		},
	}, srv)
	srv.Attach(m)
	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWS))
	t.Cleanup(func() {
		ts.Close()
		m.Close()
	})
	return ts, m
}

func websocketURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, ts *httptest.Server) *testConn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(websocketURL(ts), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &testConn{t: t, conn: conn}
}

type frame struct {
	Event string          `json:"event"`
	Ack   *int64          `json:"ack"`
	Data  json.RawMessage `json:"data"`
}

func (c *testConn) next() frame {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var f frame
	require.NoError(c.t, c.conn.ReadJSON(&f))
	return f
}

// waitFor skips frames until one with the given event arrives.
func (c *testConn) waitFor(event string) frame {
	c.t.Helper()
	for {
		f := c.next()
		if f.Event == event {
			return f
		}
	}
}

// request sends an event with an ack id and returns the matching ack.
func (c *testConn) request(event string, data any) AckResult {
	c.t.Helper()
	id := c.ack.Add(1)
	raw, err := json.Marshal(data)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteJSON(Envelope{Event: event, Ack: &id, Data: raw}))
	for {
		f := c.waitFor(EventAck)
		if f.Ack == nil || *f.Ack != id {
			continue
		}
		var res AckResult
		require.NoError(c.t, json.Unmarshal(f.Data, &res))
		return res
	}
}

func TestCreateJoinAndStartOverWebsocket(t *testing.T) {
	ts, _ := newTestServer(t, "10H", "9S", "10S", "7D", "8D", "7C")

	host := dial(t, ts)
	created := host.request(EventCreateRoom, CreateRoomRequest{Name: "Ann"})
	require.True(t, created.Success, created.Error)
	require.Len(t, created.Code, 6)
	require.NotNil(t, created.IsHost)
	require.True(t, *created.IsHost)

	guest := dial(t, ts)
	joined := guest.request(EventJoinRoom, JoinRoomRequest{Code: strings.ToLower(created.Code), Name: "Bob"})
	require.True(t, joined.Success, joined.Error)
	require.Equal(t, created.Code, joined.Code)
	require.Len(t, joined.Players, 2)
	require.False(t, *joined.IsHost)

	pushed := host.waitFor(room.EventPlayerJoined)
	var pj room.PlayerJoined
	require.NoError(t, json.Unmarshal(pushed.Data, &pj))
	require.Equal(t, "Bob", pj.Player.Name)

	notHost := guest.request(EventStartGame, nil)
	require.False(t, notHost.Success)
	require.Equal(t, "not_host", notHost.Error)

	started := host.request(EventStartGame, nil)
	require.True(t, started.Success, started.Error)
	f := guest.waitFor(room.EventGameStarted)
	var gs room.GameStarted
	require.NoError(t, json.Unmarshal(f.Data, &gs))
	require.Equal(t, room.GameKind("blackjack"), gs.GameKind)
	require.Equal(t, "betting", string(gs.GameState.Phase))
	require.Len(t, gs.GameState.Players, 2)
}

func TestBlackjackRoundOverWebsocket(t *testing.T) {
	ts, _ := newTestServer(t, "10H", "9S", "10S", "7D", "8D", "7C")

	host := dial(t, ts)
	created := host.request(EventCreateRoom, CreateRoomRequest{Name: "Ann"})
	require.True(t, created.Success)
	guest := dial(t, ts)
	require.True(t, guest.request(EventJoinRoom, JoinRoomRequest{Code: created.Code, Name: "Bob"}).Success)
	require.True(t, host.request(EventStartGame, nil).Success)

	bad := host.request(EventBlackjackPlaceBet, PlaceBetRequest{Amount: 0})
	require.False(t, bad.Success)
	require.Equal(t, "invalid_bet", bad.Error)

	require.True(t, host.request(EventBlackjackPlaceBet, PlaceBetRequest{Amount: 100}).Success)
	require.True(t, guest.request(EventBlackjackPlaceBet, PlaceBetRequest{Amount: 100}).Success)

	outOfTurn := guest.request(EventBlackjackAction, ActionRequest{Action: "stand"})
	require.False(t, outOfTurn.Success)
	require.Equal(t, "not_your_turn", outOfTurn.Error)

	unknown := host.request(EventBlackjackAction, ActionRequest{Action: "fold"})
	require.Equal(t, "unknown_action", unknown.Error)

	require.True(t, host.request(EventBlackjackAction, ActionRequest{Action: "stand"}).Success)
	require.True(t, guest.request(EventBlackjackAction, ActionRequest{Action: "stand"}).Success)

	for {
		f := host.waitFor(room.EventBlackjackUpdate)
		var up room.BlackjackUpdate
		require.NoError(t, json.Unmarshal(f.Data, &up))
		if string(up.GameState.Phase) != "roundOver" {
			continue
		}
		require.NotNil(t, up.GameState.Settlement)
		// Both players and the dealer hold 17.
		for _, p := range up.GameState.Players {
			require.Equal(t, int64(1000), p.Chips, p.Name)
		}
		break
	}
}

func TestMalformedRequestsAreAcknowledged(t *testing.T) {
	ts, _ := newTestServer(t)
	c := dial(t, ts)

	res := c.request("fold", nil)
	require.False(t, res.Success)
	require.Equal(t, "unknown_event", res.Error)

	id := int64(99)
	require.NoError(t, c.conn.WriteJSON(Envelope{Event: EventJoinRoom, Ack: &id, Data: json.RawMessage(`{"code":5}`)}))
	f := c.waitFor(EventAck)
	var ack AckResult
	require.NoError(t, json.Unmarshal(f.Data, &ack))
	require.Equal(t, "invalid_payload", ack.Error)

	notFound := c.request(EventJoinRoom, JoinRoomRequest{Code: "ZZZZZZ", Name: "Ann"})
	require.Equal(t, "room_not_found", notFound.Error)

	noRoom := c.request(EventBlackjackVoteNextHand, nil)
	require.Equal(t, "not_in_room", noRoom.Error)

	// Frames that are not JSON are ignored; the connection stays usable.
	require.NoError(t, c.conn.WriteMessage(websocket.TextMessage, []byte("nope")))
	require.True(t, c.request(EventCreateRoom, CreateRoomRequest{Name: "Ann"}).Success)
}

func TestSocketCloseDisconnectsMember(t *testing.T) {
	ts, m := newTestServer(t)
	host := dial(t, ts)
	created := host.request(EventCreateRoom, CreateRoomRequest{Name: "Ann"})
	require.True(t, created.Success)
	guest := dial(t, ts)
	require.True(t, guest.request(EventJoinRoom, JoinRoomRequest{Code: created.Code, Name: "Bob"}).Success)
	host.waitFor(room.EventPlayerJoined)

	require.NoError(t, guest.conn.Close())

	f := host.waitFor(room.EventPlayerDisconnected)
	var pd room.PlayerDisconnected
	require.NoError(t, json.Unmarshal(f.Data, &pd))
	require.Equal(t, "Bob", pd.Name)
	require.True(t, pd.Removed)
	require.Len(t, pd.Players, 1)

	st, err := m.Status(created.Code)
	require.NoError(t, err)
	require.Equal(t, 1, st.PlayerCount)
}

func TestOriginAllowList(t *testing.T) {
	srv := NewServer([]string{"https://parlor.example"})
	m := room.NewManager(room.Options{}, srv)
	srv.Attach(m)
	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWS))
	defer ts.Close()

	h := http.Header{}
	h.Set("Origin", "https://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(websocketURL(ts), h)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	h.Set("Origin", "https://parlor.example")
	conn, _, err := websocket.DefaultDialer.Dial(websocketURL(ts), h)
	require.NoError(t, err)
	_ = conn.Close()
}

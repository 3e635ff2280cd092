package room

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"card-parlor/internal/game"
	"card-parlor/internal/game/viewmodel"
	"card-parlor/internal/spectate"
)

const (
	recordTimeout    = 5 * time.Second
	spectatorBacklog = 64
)

// RoundRecorder receives every settled round. It is called outside room locks.
type RoundRecorder interface {
	RecordRound(ctx context.Context, roomCode string, s *game.Settlement) error
}

type Options struct {
	MaxPlayers     int
	MaxNameLen     int
	GracePeriod    time.Duration
	DealerStep     time.Duration
	ResultHold     time.Duration
	Decks          int
	ReshuffleRatio float64
	Game           game.Config

	Clock    Clock
	Rand     *rand.Rand
	NewShoe  func() *game.Shoe
	Recorder RoundRecorder
}

func (o Options) withDefaults() Options {
	if o.MaxPlayers <= 0 {
		o.MaxPlayers = 4
	}
	if o.MaxNameLen <= 0 {
		o.MaxNameLen = 20
	}
	if o.GracePeriod <= 0 {
		o.GracePeriod = 30 * time.Second
	}
	if o.DealerStep <= 0 {
		o.DealerStep = 900 * time.Millisecond
	}
	if o.ResultHold <= 0 {
		o.ResultHold = 1500 * time.Millisecond
	}
	if o.Decks <= 0 {
		o.Decks = 6
	}
	if o.ReshuffleRatio <= 0 || o.ReshuffleRatio >= 1 {
		o.ReshuffleRatio = game.DefaultReshuffleRatio
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	if o.Rand == nil {
		o.Rand = game.NewRand()
	}
	if o.NewShoe == nil {
		decks, ratio := o.Decks, o.ReshuffleRatio
		o.NewShoe = func() *game.Shoe { return game.NewShoe(decks, ratio, game.NewRand()) }
	}
	return o
}

// Manager is the room registry. Lock order is Manager.mu before Room.mu.
type Manager struct {
	opts  Options
	clock Clock
	out   Broadcaster

	mu    sync.Mutex
	rooms map[string]*Room
	conns map[string]string
}

func NewManager(opts Options, out Broadcaster) *Manager {
	opts = opts.withDefaults()
	return &Manager{
		opts:  opts,
		clock: opts.Clock,
		out:   out,
		rooms: map[string]*Room{},
		conns: map[string]string{},
	}
}

type pendingRound struct {
	code       string
	settlement *game.Settlement
}

func (m *Manager) cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	if utf8.RuneCountInString(name) > m.opts.MaxNameLen {
		name = strings.TrimSpace(string([]rune(name)[:m.opts.MaxNameLen]))
	}
	return name, nil
}

func (m *Manager) newCodeLocked() string {
	for {
		code := randomCode(m.opts.Rand)
		if _, taken := m.rooms[code]; !taken {
			return code
		}
	}
}

func (m *Manager) CreateRoom(connID, name, kind string) (*JoinResult, error) {
	name, err := m.cleanName(name)
	if err != nil {
		return nil, err
	}
	k, err := ParseGameKind(kind)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conns[connID]; ok {
		return nil, ErrAlreadyInRoom
	}
	r := &Room{
		Code:    m.newCodeLocked(),
		hostID:  connID,
		kind:    k,
		members: []*Member{{ID: connID, Name: name, Connected: true}},
		feed:    spectate.NewEventBuffer(spectatorBacklog),
	}
	m.rooms[r.Code] = r
	m.conns[connID] = r.Code
	metricRoomsCreatedTotal.Add(1)
	metricRoomsActive.Set(int64(len(m.rooms)))
	log.Info().Str("room", r.Code).Str("player_id", connID).Str("name", name).Str("game_kind", string(k)).Msg("room_created")

	r.mu.Lock()
	defer r.mu.Unlock()
	return &JoinResult{Code: r.Code, Players: r.membersLocked(), IsHost: true}, nil
}

func (m *Manager) JoinRoom(connID, code, name string) (*JoinResult, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	name, err = m.cleanName(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conns[connID]; ok {
		return nil, ErrAlreadyInRoom
	}
	r := m.rooms[code]
	if r == nil {
		return nil, ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if ghost := r.ghostLocked(name); ghost != nil {
		if err := m.reconnectLocked(r, ghost, connID); err != nil {
			return nil, err
		}
		m.conns[connID] = code
		return &JoinResult{Code: code, Players: r.membersLocked(), IsHost: r.hostID == connID, Reconnected: true}, nil
	}
	if r.game != nil {
		return nil, ErrGameInProgress
	}
	if r.connectedLocked() >= m.opts.MaxPlayers {
		return nil, ErrRoomFull
	}
	if r.nameTakenLocked(name) {
		return nil, ErrNameTaken
	}

	member := &Member{ID: connID, Name: name, Connected: true}
	r.members = append(r.members, member)
	m.conns[connID] = code
	metricJoinsTotal.Add(1)
	log.Info().Str("room", code).Str("player_id", connID).Str("name", name).Msg("room_joined")

	players := r.membersLocked()
	m.pushOthersLocked(r, connID, EventPlayerJoined, PlayerJoined{
		Player:  MemberView{ID: connID, Name: name, Connected: true},
		Players: players,
	})
	return &JoinResult{Code: code, Players: players, IsHost: false}, nil
}

// reconnectLocked rebinds a ghost member to connID. The game is updated first
// so a failure leaves every reference on the old id.
func (m *Manager) reconnectLocked(r *Room, ghost *Member, connID string) error {
	oldID := ghost.ID
	if r.game != nil {
		if err := r.game.ReplacePlayerID(oldID, connID); err != nil {
			return err
		}
		if err := r.game.SetConnected(connID, true); err != nil {
			return err
		}
	}
	ghost.ID = connID
	ghost.Connected = true
	delete(m.conns, oldID)
	r.cancelDeletionLocked()

	hostChanged := false
	if r.hostID == oldID {
		r.hostID = connID
		hostChanged = true
	} else if r.reassignHostLocked() {
		hostChanged = true
	}
	metricReconnectsTotal.Add(1)
	log.Info().Str("room", r.Code).Str("old_id", oldID).Str("player_id", connID).Str("name", ghost.Name).Msg("player_reconnected")

	m.pushOthersLocked(r, connID, EventPlayerJoined, PlayerJoined{
		Player:      MemberView{ID: connID, Name: ghost.Name, Connected: true, IsHost: r.hostID == connID},
		Players:     r.membersLocked(),
		Reconnected: true,
	})
	if hostChanged {
		m.pushAllLocked(r, EventHostChanged, HostChanged{HostID: r.hostID})
	}
	if r.game != nil {
		m.broadcastStateLocked(r, LastAction{PlayerID: connID, Name: ghost.Name, Type: "reconnect"})
	}
	return nil
}

func (m *Manager) StartGame(connID string) error {
	r, err := m.roomOf(connID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.closed:
		return ErrRoomNotFound
	case r.hostID != connID:
		return ErrNotHost
	case r.game != nil:
		return ErrGameInProgress
	case r.kind != KindBlackjack:
		return ErrUnsupportedGame
	}

	seats := make([]game.Seat, 0, len(r.members))
	for _, mem := range r.members {
		seats = append(seats, game.Seat{ID: mem.ID, Name: mem.Name, Connected: mem.Connected})
	}
	r.game = game.NewGame(m.opts.Game, seats, m.opts.NewShoe())
	log.Info().Str("room", r.Code).Int("players", len(seats)).Msg("game_started")
	r.feed.Append(EventGameStarted, r.Code, GameStarted{
		GameKind:  r.kind,
		GameState: viewmodel.BuildTableView(r.game, ""),
	})

	for _, mem := range r.members {
		if !mem.Connected {
			continue
		}
		m.out.Send(mem.ID, EventGameStarted, GameStarted{
			GameKind:  r.kind,
			GameState: viewmodel.BuildTableView(r.game, mem.ID),
		})
	}
	return nil
}

// Disconnect is not an error path: the player becomes a ghost if a game is
// running, otherwise they leave the room.
func (m *Manager) Disconnect(connID string) {
	m.recordRound(m.disconnect(connID))
}

func (m *Manager) disconnect(connID string) *pendingRound {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.conns[connID]
	if !ok {
		return nil
	}
	delete(m.conns, connID)
	r := m.rooms[code]
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	member := r.memberLocked(connID)
	if member == nil {
		return nil
	}

	if r.game == nil {
		r.removeMemberLocked(connID)
		log.Info().Str("room", code).Str("player_id", connID).Msg("player_left_lobby")
		if len(r.members) == 0 {
			m.deleteRoomLocked(r, "empty")
			return nil
		}
		m.pushAllLocked(r, EventPlayerDisconnected, PlayerDisconnected{
			PlayerID: connID, Name: member.Name, Removed: true, Players: r.membersLocked(),
		})
		if r.reassignHostLocked() {
			m.pushAllLocked(r, EventHostChanged, HostChanged{HostID: r.hostID})
		}
		return nil
	}

	member.Connected = false
	before := r.game.LastSettlement()
	if err := r.game.SetConnected(connID, false); err != nil {
		log.Warn().Err(err).Str("room", code).Str("player_id", connID).Msg("disconnect_release_failed")
	}
	log.Info().Str("room", code).Str("player_id", connID).Str("phase", string(r.game.Phase)).Msg("player_disconnected")

	m.pushAllLocked(r, EventPlayerDisconnected, PlayerDisconnected{
		PlayerID: connID, Name: member.Name, Players: r.membersLocked(),
	})
	if r.reassignHostLocked() {
		m.pushAllLocked(r, EventHostChanged, HostChanged{HostID: r.hostID})
	}
	pending := m.afterMutationLocked(r, LastAction{PlayerID: connID, Name: member.Name, Type: "disconnect"}, before)
	if r.connectedLocked() == 0 {
		m.scheduleDeletionLocked(r)
	}
	return pending
}

func (m *Manager) scheduleDeletionLocked(r *Room) {
	r.cancelDeletionLocked()
	gen := r.deleteGen
	r.deleteTimer = m.clock.AfterFunc(m.opts.GracePeriod, func() { m.expire(r, gen) })
	log.Info().Str("room", r.Code).Dur("grace", m.opts.GracePeriod).Msg("room_deletion_scheduled")
}

func (m *Manager) expire(r *Room, gen int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rooms[r.Code] != r {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.deleteGen != gen || r.connectedLocked() > 0 {
		return
	}
	m.deleteRoomLocked(r, "grace_expired")
}

// deleteRoomLocked requires both m.mu and r.mu.
func (m *Manager) deleteRoomLocked(r *Room, reason string) {
	r.closed = true
	r.cancelDeletionLocked()
	r.cancelDealerLocked()
	r.feed.Close()
	delete(m.rooms, r.Code)
	for _, mem := range r.members {
		if m.conns[mem.ID] == r.Code {
			delete(m.conns, mem.ID)
		}
	}
	metricRoomsDeletedTotal.Add(1)
	metricRoomsActive.Set(int64(len(m.rooms)))
	log.Info().Str("room", r.Code).Str("reason", reason).Msg("room_deleted")
}

func (m *Manager) roomOf(connID string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.conns[connID]
	if !ok {
		return nil, ErrNotInRoom
	}
	r := m.rooms[code]
	if r == nil {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// play runs fn against the caller's game under the room lock, then fans out
// fresh views and arms the dealer if the table reached the dealer's turn.
func (m *Manager) play(connID string, action LastAction, fn func(g *game.Game) error) error {
	r, err := m.roomOf(connID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRoomNotFound
	}
	if r.game == nil {
		r.mu.Unlock()
		return ErrNoActiveGame
	}
	member := r.memberLocked(connID)
	if member == nil {
		r.mu.Unlock()
		return ErrNotInRoom
	}
	before := r.game.LastSettlement()
	if err := fn(r.game); err != nil {
		r.mu.Unlock()
		metricActionsRejectedTotal.Add(1)
		log.Debug().Err(err).Str("room", r.Code).Str("player_id", connID).Str("action", action.Type).Msg("action_rejected")
		return err
	}
	metricActionsAcceptedTotal.Add(1)
	action.PlayerID = connID
	action.Name = member.Name
	pending := m.afterMutationLocked(r, action, before)
	r.mu.Unlock()

	m.recordRound(pending)
	return nil
}

func (m *Manager) afterMutationLocked(r *Room, action LastAction, before *game.Settlement) *pendingRound {
	m.broadcastStateLocked(r, action)
	var pending *pendingRound
	if s := r.game.LastSettlement(); s != nil && s != before {
		metricRoundsSettledTotal.Add(1)
		log.Info().Str("room", r.Code).Int("round", s.Round).Int("dealer_score", s.DealerScore).Msg("round_settled")
		pending = &pendingRound{code: r.Code, settlement: s}
	}
	m.armDealerLocked(r)
	return pending
}

// Action dispatches a blackjackAction event.
func (m *Manager) Action(connID, action string, amount int64) error {
	a, ok := game.ParseAction(action)
	if !ok {
		return ErrUnknownAction
	}
	la := LastAction{Type: string(a)}
	if a == game.ActionInsurance {
		la.Amount = amount
	}
	return m.play(connID, la, func(g *game.Game) error {
		switch a {
		case game.ActionHit:
			return g.Hit(connID)
		case game.ActionStand:
			return g.Stand(connID)
		case game.ActionDouble:
			return g.Double(connID)
		case game.ActionSplit:
			return g.Split(connID)
		case game.ActionSurrender:
			return g.Surrender(connID)
		default:
			return g.Insurance(connID, amount)
		}
	})
}

func (m *Manager) PlaceBet(connID string, amount int64) error {
	return m.play(connID, LastAction{Type: "bet", Amount: amount}, func(g *game.Game) error {
		return g.PlaceBet(connID, amount)
	})
}

func (m *Manager) VoteNextHand(connID string) error {
	return m.play(connID, LastAction{Type: "voteNextHand"}, func(g *game.Game) error {
		return g.VoteNextHand(connID)
	})
}

// Beg returns the caller's chip count after the attempt.
func (m *Manager) Beg(connID, message string) (int64, error) {
	var chips int64
	err := m.play(connID, LastAction{Type: "beg"}, func(g *game.Game) error {
		c, err := g.Beg(connID, message)
		chips = c
		return err
	})
	return chips, err
}

func (m *Manager) Status(code string) (Status, error) {
	r, err := m.lookup(code)
	if err != nil {
		return Status{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Status{}, ErrRoomNotFound
	}
	return Status{
		Code:        r.Code,
		GameKind:    r.kind,
		PlayerCount: len(r.members),
		MaxPlayers:  m.opts.MaxPlayers,
		Status:      r.statusLocked(),
	}, nil
}

// SpectatorFeed returns the room's public event stream. Spectator views
// never carry actions or a seat of their own.
func (m *Manager) SpectatorFeed(code string) (*spectate.EventBuffer, error) {
	r, err := m.lookup(code)
	if err != nil {
		return nil, err
	}
	return r.feed, nil
}

// SpectatorState is the current table as an outsider sees it.
func (m *Manager) SpectatorState(code string) (viewmodel.TableView, error) {
	r, err := m.lookup(code)
	if err != nil {
		return viewmodel.TableView{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return viewmodel.TableView{}, ErrRoomNotFound
	}
	if r.game == nil {
		return viewmodel.TableView{}, ErrNoActiveGame
	}
	return viewmodel.BuildTableView(r.game, ""), nil
}

func (m *Manager) lookup(code string) (*Room, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	r := m.rooms[code]
	m.mu.Unlock()
	if r == nil {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

func (m *Manager) RoomCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// Close cancels every pending timer. Rooms are dropped with it.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		r.mu.Lock()
		m.deleteRoomLocked(r, "shutdown")
		r.mu.Unlock()
	}
}

func (m *Manager) recordRound(p *pendingRound) {
	if p == nil || m.opts.Recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := m.opts.Recorder.RecordRound(ctx, p.code, p.settlement); err != nil {
		metricRoundRecordErrors.Add(1)
		log.Error().Err(err).Str("room", p.code).Int("round", p.settlement.Round).Msg("round_record_failed")
	}
}

func (m *Manager) broadcastStateLocked(r *Room, action LastAction) {
	r.feed.Append(EventBlackjackUpdate, r.Code, BlackjackUpdate{
		GameState:  viewmodel.BuildTableView(r.game, ""),
		LastAction: action,
	})
	for _, mem := range r.members {
		if !mem.Connected {
			continue
		}
		m.out.Send(mem.ID, EventBlackjackUpdate, BlackjackUpdate{
			GameState:  viewmodel.BuildTableView(r.game, mem.ID),
			LastAction: action,
		})
	}
}

func (m *Manager) pushAllLocked(r *Room, event string, payload any) {
	for _, mem := range r.members {
		if mem.Connected {
			m.out.Send(mem.ID, event, payload)
		}
	}
}

func (m *Manager) pushOthersLocked(r *Room, exceptID, event string, payload any) {
	for _, mem := range r.members {
		if mem.Connected && mem.ID != exceptID {
			m.out.Send(mem.ID, event, payload)
		}
	}
}

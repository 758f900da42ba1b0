// internal/coordinator/coordinator.go
package coordinator

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dhihaei/gameserver/internal/game"
	"github.com/dhihaei/gameserver/internal/protocol"
	"github.com/dhihaei/gameserver/internal/room"
	"github.com/dhihaei/gameserver/internal/session"
)

// Router is the outbound side the coordinator drives. Every mutation commits
// to the room store before any Router call, so observers never see an event
// that precedes the state it describes.
type Router interface {
	JoinRoom(roomID string, connID uuid.UUID)
	LeaveRoom(roomID string, connID uuid.UUID)
	ToRoom(roomID, event string, data any, exclude uuid.UUID)
	ToConn(connID uuid.UUID, event string, data any)
}

// SpectatorPolicy decides what happens to spectators when the last player
// leaves a room.
type SpectatorPolicy string

const (
	// SpectatorEvict deletes the room and notifies spectators it closed.
	SpectatorEvict SpectatorPolicy = "evict"
	// SpectatorRetain keeps the room alive in waiting status.
	SpectatorRetain SpectatorPolicy = "retain"
)

// Leave reasons broadcast with a mid-game departure.
const (
	ReasonLeft         = "left"
	ReasonDisconnected = "disconnected"
)

// Coordinator owns the rooms, sessions, and matchmaking queues and serializes
// every operation against them under one mutex. Operations are short and
// purely in-memory, so a single mutual-exclusion domain keeps the interleaving
// of connection events, timeouts, and player actions trivially linearized.
type Coordinator struct {
	log             *logrus.Logger
	router          Router
	types           *game.Registry
	spectatorPolicy SpectatorPolicy

	mu       sync.Mutex
	rooms    *room.Store
	sessions *session.Registry
	queues   map[string][]queueEntry
}

// New builds a Coordinator. The registries start empty: all state is
// in-memory and rebuilt from nothing at process start.
func New(log *logrus.Logger, rt Router, types *game.Registry, policy SpectatorPolicy) *Coordinator {
	if policy == "" {
		policy = SpectatorEvict
	}
	return &Coordinator{
		log:             log,
		router:          rt,
		types:           types,
		spectatorPolicy: policy,
		rooms:           room.NewStore(),
		sessions:        session.NewRegistry(),
		queues:          make(map[string][]queueEntry),
	}
}

// displayName substitutes the original server's default for blank names.
func displayName(name string) string {
	if name == "" {
		return "Player"
	}
	return name
}

// CreateRoom allocates a new waiting room with the caller as host at
// position 0 and binds the creating connection.
func (c *Coordinator) CreateRoom(connID uuid.UUID, name, gameTypeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, bound := c.sessions.Lookup(connID); bound {
		return ErrAlreadyInRoom
	}
	if c.inAnyQueueLocked(connID) {
		return ErrInQueue
	}
	gt, ok := c.types.Lookup(gameTypeID)
	if !ok {
		return ErrUnknownGameType
	}

	r, err := c.rooms.Allocate(gt)
	if err != nil {
		return err
	}
	r.HostConn = connID
	r.Players[0] = &room.PlayerSlot{ConnID: connID, Name: displayName(name), Connected: true}
	c.sessions.Bind(connID, r.ID, 0, gt.ID, false)
	c.router.JoinRoom(r.ID, connID)

	c.log.Infof("room %s created by %s (%s)", r.ID, displayName(name), connID)
	c.router.ToConn(connID, protocol.EvtRoomCreated, protocol.RoomCreatedPayload{
		RoomID:   r.ID,
		Position: 0,
		Players:  r.PlayersView(),
	})
	return nil
}

// JoinRoom admits a connection to an existing room. Waiting rooms assign the
// lowest free position; playing rooms first offer replacement of a dropped
// player's slot, then spectator admission; confirming rooms are not joinable.
func (c *Coordinator) JoinRoom(connID uuid.UUID, code, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, bound := c.sessions.Lookup(connID); bound {
		return ErrAlreadyInRoom
	}
	if c.inAnyQueueLocked(connID) {
		return ErrInQueue
	}

	r, ok := c.rooms.Get(room.NormalizeCode(code))
	if !ok {
		return ErrRoomNotFound
	}

	switch r.Status {
	case room.StatusWaiting:
		return c.joinWaitingLocked(r, connID, name)
	case room.StatusPlaying:
		if pos, dropped := r.DisconnectedPosition(); dropped {
			return c.rejoinPlayingLocked(r, connID, name, pos)
		}
		return c.joinSpectatorLocked(r, connID, name)
	default: // confirming
		return ErrGameInProgress
	}
}

func (c *Coordinator) joinWaitingLocked(r *room.Room, connID uuid.UUID, name string) error {
	pos, free := r.LowestFreePosition()
	if !free {
		return ErrRoomFull
	}
	r.Players[pos] = &room.PlayerSlot{ConnID: connID, Name: displayName(name), Connected: true}
	c.syncHostLocked(r)
	c.sessions.Bind(connID, r.ID, pos, r.GameType.ID, false)
	c.router.JoinRoom(r.ID, connID)

	c.log.Infof("%s joined room %s at position %d", displayName(name), r.ID, pos)
	c.router.ToConn(connID, protocol.EvtRoomJoined, protocol.RoomJoinedPayload{
		RoomID:   r.ID,
		Position: pos,
		Players:  r.PlayersView(),
	})
	c.broadcastPlayersLocked(r, connID)
	return nil
}

// rejoinPlayingLocked replaces a dropped player's slot: same position, stored
// hand inherited, ready without re-readying.
func (c *Coordinator) rejoinPlayingLocked(r *room.Room, connID uuid.UUID, name string, pos int) error {
	slot := r.Players[pos]
	slot.ConnID = connID
	slot.Name = displayName(name)
	slot.Ready = true
	slot.Connected = true
	c.syncHostLocked(r)
	c.sessions.Bind(connID, r.ID, pos, r.GameType.ID, false)
	c.router.JoinRoom(r.ID, connID)

	var hand json.RawMessage
	if r.Hands != nil {
		hand = r.Hands[pos]
	}
	c.log.Infof("%s rejoined room %s at position %d", slot.Name, r.ID, pos)
	c.router.ToConn(connID, protocol.EvtRoomJoined, protocol.RoomJoinedPayload{
		RoomID:    r.ID,
		Position:  pos,
		Players:   r.PlayersView(),
		GameState: r.GameState,
		Hand:      hand,
	})
	c.broadcastPlayersLocked(r, connID)
	c.router.ToRoom(r.ID, protocol.EvtPlayerReconnected, protocol.PlayerReconnectedPayload{
		Position: pos,
		Name:     slot.Name,
	}, connID)
	return nil
}

func (c *Coordinator) joinSpectatorLocked(r *room.Room, connID uuid.UUID, name string) error {
	r.Spectators[connID] = &room.Spectator{ConnID: connID, Name: displayName(name), Connected: true}
	c.sessions.Bind(connID, r.ID, session.SpectatorPosition, r.GameType.ID, true)
	c.router.JoinRoom(r.ID, connID)

	c.log.Infof("%s spectating room %s", displayName(name), r.ID)
	c.router.ToConn(connID, protocol.EvtRoomJoined, protocol.RoomJoinedPayload{
		RoomID:     r.ID,
		Position:   session.SpectatorPosition,
		Spectator:  true,
		Players:    r.PlayersView(),
		Spectators: r.SpectatorsView(),
		GameState:  r.GameState,
	})
	c.broadcastPlayersLocked(r, connID)
	return nil
}

// LeaveRoom handles an explicit leave. Leaving with no active session is a
// complete no-op: no error, no ack, no broadcast.
func (c *Coordinator) LeaveRoom(connID uuid.UUID) error {
	c.mu.Lock()
	hadSession := c.leaveLocked(connID, ReasonLeft)
	c.mu.Unlock()
	if hadSession {
		c.router.ToConn(connID, protocol.EvtLeftRoom, struct{}{})
	}
	return nil
}

// Disconnect tears down everything attached to a dropped connection: its room
// binding (with disconnect semantics) and any queue membership.
func (c *Coordinator) Disconnect(connID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leaveLocked(connID, ReasonDisconnected)
	c.leaveQueueLocked(connID)
}

// leaveLocked removes or detaches connID from its room. During play the slot
// is kept as a connected:false placeholder so the room survives for
// replacement joins; otherwise the position is freed and empty rooms die.
// Returns whether a session existed.
func (c *Coordinator) leaveLocked(connID uuid.UUID, reason string) bool {
	s, bound := c.sessions.Lookup(connID)
	if !bound {
		return false
	}
	c.sessions.Unbind(connID)
	c.router.LeaveRoom(s.RoomID, connID)

	r, ok := c.rooms.Get(s.RoomID)
	if !ok {
		// Session outlived its room; expected race, not a fault.
		return true
	}

	if s.Spectator {
		delete(r.Spectators, connID)
		c.broadcastPlayersLocked(r, uuid.Nil)
		return true
	}

	slot, ok := r.Players[s.Position]
	if !ok || slot.ConnID != connID {
		c.log.Warnf("room %s: session for %s points at position %d it does not occupy", r.ID, connID, s.Position)
		return true
	}

	if r.Status == room.StatusPlaying {
		slot.Connected = false
		c.router.ToRoom(r.ID, protocol.EvtPlayerLeftGame, protocol.PlayerLeftGamePayload{
			Position: s.Position,
			Reason:   reason,
			Players:  r.PlayersView(),
		}, uuid.Nil)
		return true
	}

	delete(r.Players, s.Position)
	if r.PlayerCount() == 0 {
		c.emptyRoomLocked(r)
		return true
	}
	c.syncHostLocked(r)
	c.broadcastPlayersLocked(r, uuid.Nil)
	if r.Status == room.StatusConfirming && r.AllConfirmed() {
		c.resolveConfirmLocked(r)
	}
	return true
}

// emptyRoomLocked applies the spectator policy once the last player is gone.
func (c *Coordinator) emptyRoomLocked(r *room.Room) {
	if c.spectatorPolicy == SpectatorRetain && len(r.Spectators) > 0 {
		r.Status = room.StatusWaiting
		r.GameState = nil
		r.Hands = nil
		r.ReadyForRound = make(map[int]struct{})
		r.StopConfirmTimer()
		c.broadcastPlayersLocked(r, uuid.Nil)
		return
	}
	c.deleteRoomLocked(r)
}

func (c *Coordinator) deleteRoomLocked(r *room.Room) {
	r.StopConfirmTimer()
	for connID := range r.Spectators {
		c.sessions.Unbind(connID)
		c.router.ToConn(connID, protocol.EvtRoomClosed, protocol.NoticePayload{Message: "Room closed"})
		c.router.LeaveRoom(r.ID, connID)
	}
	c.rooms.Delete(r.ID)
	c.log.Infof("room %s deleted (empty)", r.ID)
}

// SetReady toggles the caller's own ready flag. Stale sessions are ignored.
func (c *Coordinator) SetReady(connID uuid.UUID, ready bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, bound := c.sessions.Lookup(connID)
	if !bound || s.Spectator {
		return nil
	}
	r, ok := c.rooms.Get(s.RoomID)
	if !ok {
		return nil
	}
	slot, ok := r.Players[s.Position]
	if !ok || slot.ConnID != connID {
		return nil
	}
	slot.Ready = ready
	c.broadcastPlayersLocked(r, uuid.Nil)
	return nil
}

// SwapPlayer moves the occupant of fromPos to the opposite team: into its
// first empty slot when one exists, otherwise exchanging with the occupant of
// the opposite team's lowest position. Host only.
func (c *Coordinator) SwapPlayer(connID uuid.UUID, fromPos int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, bound := c.sessions.Lookup(connID)
	if !bound {
		return nil
	}
	if s.Spectator || s.Position != 0 {
		return ErrNotHost
	}
	r, ok := c.rooms.Get(s.RoomID)
	if !ok {
		return nil
	}
	if !r.GameType.Teamed {
		return ErrNoTeams
	}
	mover, ok := r.Players[fromPos]
	if !ok {
		return ErrNoPlayerInSlot
	}

	targetTeam := 1 - game.TeamOf(fromPos)
	targetPositions := r.GameType.TeamPositions(targetTeam)

	toPos := -1
	for _, p := range targetPositions {
		if _, taken := r.Players[p]; !taken {
			toPos = p
			break
		}
	}

	if toPos >= 0 {
		r.Players[toPos] = mover
		delete(r.Players, fromPos)
		c.sessions.Bind(mover.ConnID, r.ID, toPos, r.GameType.ID, false)
	} else {
		toPos = targetPositions[0]
		other := r.Players[toPos]
		r.Players[toPos] = mover
		r.Players[fromPos] = other
		c.sessions.Bind(mover.ConnID, r.ID, toPos, r.GameType.ID, false)
		c.sessions.Bind(other.ConnID, r.ID, fromPos, r.GameType.ID, false)
	}
	c.syncHostLocked(r)

	view := r.PlayersView()
	c.router.ToRoom(r.ID, protocol.EvtPlayersChanged, protocol.PlayersChangedPayload{
		Players:    view,
		Spectators: r.SpectatorsView(),
	}, uuid.Nil)
	c.router.ToRoom(r.ID, protocol.EvtPositionChanged, protocol.PositionChangedPayload{
		FromPosition: fromPos,
		ToPosition:   toPos,
		Players:      view,
	}, uuid.Nil)
	return nil
}

// StartGame transitions a full, all-ready waiting room into play, storing the
// opaque gameState and hands it will relay from then on. Host only.
func (c *Coordinator) StartGame(connID uuid.UUID, gameState json.RawMessage, hands map[int]json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, bound := c.sessions.Lookup(connID)
	if !bound {
		return nil
	}
	if s.Spectator || s.Position != 0 {
		return ErrNotHost
	}
	r, ok := c.rooms.Get(s.RoomID)
	if !ok {
		return nil
	}
	if r.Status != room.StatusWaiting {
		return ErrGameInProgress
	}
	if r.PlayerCount() < r.GameType.MinPlayers {
		return ErrNotEnoughPlayers
	}
	if !r.AllReady() {
		return ErrNotAllReady
	}

	r.Status = room.StatusPlaying
	r.GameState = gameState
	r.Hands = hands
	r.ReadyForRound = make(map[int]struct{})

	c.log.Infof("game started in room %s", r.ID)
	c.router.ToRoom(r.ID, protocol.EvtGameStarted, protocol.GameStartedPayload{
		GameState: r.GameState,
		Hands:     r.Hands,
		Players:   r.PlayersView(),
	}, uuid.Nil)
	return nil
}

// Relay fans a gameplay event out to the rest of the room. The coordinator
// authenticates only that the caller has an active player session here; it
// never validates move legality.
func (c *Coordinator) Relay(connID uuid.UUID, inbound string, data json.RawMessage) error {
	outEvent, ok := protocol.RelayEvent(inbound)
	if !ok {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, bound := c.sessions.Lookup(connID)
	if !bound || s.Spectator {
		return nil
	}
	if _, ok := c.rooms.Get(s.RoomID); !ok {
		return nil
	}

	var card struct {
		Card json.RawMessage `json:"card"`
	}
	_ = json.Unmarshal(data, &card)

	payload := protocol.RelayPayload{Position: s.Position, Card: card.Card}
	if len(card.Card) == 0 {
		payload.Data = data
	}
	c.router.ToRoom(s.RoomID, outEvent, payload, connID)
	return nil
}

// UpdateGameState persists the latest opaque snapshot so late joiners can
// recover it, then relays it to the other occupants.
func (c *Coordinator) UpdateGameState(connID uuid.UUID, gameState json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, bound := c.sessions.Lookup(connID)
	if !bound || s.Spectator {
		return nil
	}
	r, ok := c.rooms.Get(s.RoomID)
	if !ok {
		return nil
	}
	r.GameState = gameState
	c.router.ToRoom(r.ID, protocol.EvtGameStateUpdated, protocol.GameStateUpdatedPayload{
		GameState: gameState,
	}, connID)
	return nil
}

// NewRound stores the next round's payloads and broadcasts them room-wide.
// Only the host relays new rounds; others are silently ignored as in the
// original protocol.
func (c *Coordinator) NewRound(connID uuid.UUID, gameState json.RawMessage, hands map[int]json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, bound := c.sessions.Lookup(connID)
	if !bound || s.Spectator || s.Position != 0 {
		return nil
	}
	r, ok := c.rooms.Get(s.RoomID)
	if !ok {
		return nil
	}
	r.GameState = gameState
	r.Hands = hands
	r.ReadyForRound = make(map[int]struct{})

	c.log.Infof("new round started in room %s", r.ID)
	c.router.ToRoom(r.ID, protocol.EvtRoundStarted, protocol.RoundStartedPayload{
		GameState: gameState,
		Hands:     hands,
	}, uuid.Nil)
	return nil
}

// ReadyForRound accumulates per-position acks; once every occupied position
// has acked, the set clears and the all-ready event goes out. A plain
// rendezvous barrier.
func (c *Coordinator) ReadyForRound(connID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, bound := c.sessions.Lookup(connID)
	if !bound || s.Spectator {
		return nil
	}
	r, ok := c.rooms.Get(s.RoomID)
	if !ok || r.Status != room.StatusPlaying {
		return nil
	}
	r.ReadyForRound[s.Position] = struct{}{}
	if len(r.ReadyForRound) >= r.PlayerCount() {
		r.ReadyForRound = make(map[int]struct{})
		c.router.ToRoom(r.ID, protocol.EvtAllReadyForRound, struct{}{}, uuid.Nil)
	}
	return nil
}

// syncHostLocked keeps the host metadata pointing at position 0's occupant.
func (c *Coordinator) syncHostLocked(r *room.Room) {
	if slot, ok := r.Players[0]; ok {
		r.HostConn = slot.ConnID
	}
}

func (c *Coordinator) broadcastPlayersLocked(r *room.Room, exclude uuid.UUID) {
	c.router.ToRoom(r.ID, protocol.EvtPlayersChanged, protocol.PlayersChangedPayload{
		Players:    r.PlayersView(),
		Spectators: r.SpectatorsView(),
	}, exclude)
}

// RoomSummary is the read-only diagnostic view served over HTTP.
type RoomSummary struct {
	RoomID      string    `json:"roomId"`
	Status      string    `json:"status"`
	GameType    string    `json:"gameType"`
	PlayerCount int       `json:"playerCount"`
	Spectators  int       `json:"spectators"`
	QuickMatch  bool      `json:"quickMatch"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Rooms returns summaries of every active room.
func (c *Coordinator) Rooms() []RoomSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]RoomSummary, 0, c.rooms.Len())
	c.rooms.Each(func(r *room.Room) {
		out = append(out, RoomSummary{
			RoomID:      r.ID,
			Status:      string(r.Status),
			GameType:    r.GameType.ID,
			PlayerCount: r.PlayerCount(),
			Spectators:  len(r.Spectators),
			QuickMatch:  r.QuickMatch,
			CreatedAt:   r.CreatedAt,
		})
	})
	return out
}

// internal/room/room.go
package room

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dhihaei/gameserver/internal/game"
	"github.com/dhihaei/gameserver/internal/protocol"
)

// Status is the room lifecycle state.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusConfirming Status = "confirming"
	StatusPlaying    Status = "playing"
)

// PlayerSlot is one occupied player position.
type PlayerSlot struct {
	ConnID    uuid.UUID
	Name      string
	Ready     bool
	Connected bool
	// Confirmed is only meaningful while the room is confirming.
	Confirmed bool
	// EnqueuedAt carries the matchmaking enqueue time through a quick-match
	// room so timeout recovery can requeue in original order. Zero for slots
	// filled outside matchmaking.
	EnqueuedAt time.Time
}

// Spectator is a connection watching a room without a player position.
type Spectator struct {
	ConnID    uuid.UUID
	Name      string
	Connected bool
}

// Room is a single game room: metadata, occupant slots, optional spectators,
// and the latest opaque game payloads. Rooms are not safe for concurrent use;
// the coordinator serializes all access.
type Room struct {
	ID         string
	Status     Status
	HostConn   uuid.UUID
	CreatedAt  time.Time
	GameType   game.Type
	QuickMatch bool

	ConfirmDeadline time.Time
	confirmTimer    *time.Timer

	Players    map[int]*PlayerSlot
	Spectators map[uuid.UUID]*Spectator

	// GameState and Hands are opaque to the coordinator: stored and relayed,
	// never interpreted.
	GameState json.RawMessage
	Hands     map[int]json.RawMessage

	ReadyForRound map[int]struct{}
}

// New allocates an empty room in waiting status.
func New(id string, gt game.Type) *Room {
	return &Room{
		ID:            id,
		Status:        StatusWaiting,
		CreatedAt:     time.Now(),
		GameType:      gt,
		Players:       make(map[int]*PlayerSlot),
		Spectators:    make(map[uuid.UUID]*Spectator),
		ReadyForRound: make(map[int]struct{}),
	}
}

// PlayerCount is the number of occupied player positions, spectators excluded.
func (r *Room) PlayerCount() int { return len(r.Players) }

// LowestFreePosition returns the lowest unoccupied index in [0, MaxPlayers).
func (r *Room) LowestFreePosition() (int, bool) {
	for i := 0; i < r.GameType.MaxPlayers; i++ {
		if _, taken := r.Players[i]; !taken {
			return i, true
		}
	}
	return 0, false
}

// DisconnectedPosition returns the lowest occupied position whose player has
// dropped, for replacement joins during play.
func (r *Room) DisconnectedPosition() (int, bool) {
	for i := 0; i < r.GameType.MaxPlayers; i++ {
		if slot, ok := r.Players[i]; ok && !slot.Connected {
			return i, true
		}
	}
	return 0, false
}

// PositionOf returns the position occupied by connID.
func (r *Room) PositionOf(connID uuid.UUID) (int, bool) {
	for pos, slot := range r.Players {
		if slot.ConnID == connID {
			return pos, true
		}
	}
	return 0, false
}

// AllReady reports whether every occupied slot is ready.
func (r *Room) AllReady() bool {
	for _, slot := range r.Players {
		if !slot.Ready {
			return false
		}
	}
	return true
}

// AllConfirmed reports whether every occupied slot has confirmed the match.
func (r *Room) AllConfirmed() bool {
	for _, slot := range r.Players {
		if !slot.Confirmed {
			return false
		}
	}
	return true
}

// ArmConfirmTimer stores the confirmation deadline task alongside the room so
// its lifecycle cannot outlive the room it guards.
func (r *Room) ArmConfirmTimer(window time.Duration, fire func()) {
	r.ConfirmDeadline = time.Now().Add(window)
	r.confirmTimer = time.AfterFunc(window, fire)
}

// StopConfirmTimer cancels a pending confirmation deadline. Idempotent: safe
// on an already-fired or never-armed timer.
func (r *Room) StopConfirmTimer() {
	if r.confirmTimer != nil {
		r.confirmTimer.Stop()
		r.confirmTimer = nil
	}
}

// PlayersView builds the serializable position->player map for broadcasts.
func (r *Room) PlayersView() map[int]protocol.PlayerView {
	view := make(map[int]protocol.PlayerView, len(r.Players))
	for pos, slot := range r.Players {
		view[pos] = protocol.PlayerView{
			ID:        slot.ConnID.String(),
			Name:      slot.Name,
			Ready:     slot.Ready,
			Connected: slot.Connected,
			Confirmed: slot.Confirmed,
		}
	}
	return view
}

// SpectatorsView builds the serializable spectator map for broadcasts.
func (r *Room) SpectatorsView() map[string]protocol.SpectatorView {
	if len(r.Spectators) == 0 {
		return nil
	}
	view := make(map[string]protocol.SpectatorView, len(r.Spectators))
	for id, sp := range r.Spectators {
		view[id.String()] = protocol.SpectatorView{Name: sp.Name, Connected: sp.Connected}
	}
	return view
}

// internal/session/registry.go
package session

import (
	"sync"

	"github.com/google/uuid"
)

// SpectatorPosition is the sentinel position for spectating sessions.
const SpectatorPosition = -1

// Session binds a live connection to its current room slot (or spectator
// entry). Unbound connections have no Session.
type Session struct {
	ConnID    uuid.UUID
	RoomID    string
	Position  int
	GameType  string
	Spectator bool
}

// Registry maps connection ids to their room bindings. It is the leaf of the
// coordinator: no side effects beyond the map, all broadcasting is driven by
// callers.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]Session
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]Session)}
}

// Bind records a session for connID, overwriting any existing binding. The
// overwrite path is what reconnection and position swaps rely on.
func (r *Registry) Bind(connID uuid.UUID, roomID string, position int, gameType string, spectator bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[connID] = Session{
		ConnID:    connID,
		RoomID:    roomID,
		Position:  position,
		GameType:  gameType,
		Spectator: spectator,
	}
}

// Lookup returns the session for connID, if bound.
func (r *Registry) Lookup(connID uuid.UUID) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[connID]
	return s, ok
}

// Unbind removes the binding for connID. Unbinding an unbound connection is a
// no-op.
func (r *Registry) Unbind(connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, connID)
}

// Len returns the number of bound sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

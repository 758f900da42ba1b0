// internal/room/store.go
package room

import (
	"fmt"

	"github.com/dhihaei/gameserver/internal/game"
)

// Store owns the collection of active rooms, keyed by room code. The Store is
// not internally locked: the coordinator serializes every operation touching
// rooms, so a second lock here would only invite ordering bugs.
type Store struct {
	rooms map[string]*Room
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{rooms: make(map[string]*Room)}
}

// Allocate creates a new room under a freshly drawn unique code. Collisions
// retry until an unused code is found; at 32^6 codes the retry loop terminates
// almost surely.
func (s *Store) Allocate(gt game.Type) (*Room, error) {
	for {
		code, err := NewCode()
		if err != nil {
			return nil, fmt.Errorf("generate room code: %w", err)
		}
		if _, taken := s.rooms[code]; taken {
			continue
		}
		r := New(code, gt)
		s.rooms[code] = r
		return r, nil
	}
}

// Get returns the room for a code, if present.
func (s *Store) Get(code string) (*Room, bool) {
	r, ok := s.rooms[code]
	return r, ok
}

// Delete removes a room. Deleting an absent code is a no-op.
func (s *Store) Delete(code string) {
	delete(s.rooms, code)
}

// Len returns the number of active rooms.
func (s *Store) Len() int { return len(s.rooms) }

// Each visits every room. The visitor must not mutate the store.
func (s *Store) Each(fn func(*Room)) {
	for _, r := range s.rooms {
		fn(r)
	}
}

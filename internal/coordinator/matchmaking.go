// internal/coordinator/matchmaking.go
package coordinator

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dhihaei/gameserver/internal/game"
	"github.com/dhihaei/gameserver/internal/protocol"
	"github.com/dhihaei/gameserver/internal/room"
	"github.com/dhihaei/gameserver/internal/session"
)

// queueEntry is one waiting player in a game type's FIFO queue.
type queueEntry struct {
	ConnID   uuid.UUID
	Name     string
	JoinedAt time.Time
}

// JoinQueue appends the caller to the game type's matchmaking queue and
// attempts match formation. Connections already bound to a room cannot queue.
func (c *Coordinator) JoinQueue(connID uuid.UUID, name, gameTypeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, bound := c.sessions.Lookup(connID); bound {
		return ErrAlreadyInRoom
	}
	gt, ok := c.types.Lookup(gameTypeID)
	if !ok {
		return ErrUnknownGameType
	}
	if !gt.SupportsQuickMatch() {
		return ErrNoQuickMatch
	}
	if c.inAnyQueueLocked(connID) {
		return ErrAlreadyQueued
	}

	c.queues[gt.ID] = append(c.queues[gt.ID], queueEntry{
		ConnID:   connID,
		Name:     displayName(name),
		JoinedAt: time.Now(),
	})
	c.router.ToConn(connID, protocol.EvtQueueJoined, protocol.QueuePayload{
		QueueLength: len(c.queues[gt.ID]),
	})
	c.broadcastQueueLocked(gt.ID)
	c.tryMatchLocked(gt)
	return nil
}

// LeaveQueue removes the caller from its queue if present; otherwise a no-op.
// The ack is sent either way.
func (c *Coordinator) LeaveQueue(connID uuid.UUID) error {
	c.mu.Lock()
	c.leaveQueueLocked(connID)
	c.mu.Unlock()
	c.router.ToConn(connID, protocol.EvtQueueLeft, struct{}{})
	return nil
}

func (c *Coordinator) leaveQueueLocked(connID uuid.UUID) bool {
	for gameTypeID, q := range c.queues {
		for i, e := range q {
			if e.ConnID == connID {
				c.queues[gameTypeID] = append(q[:i:i], q[i+1:]...)
				c.broadcastQueueLocked(gameTypeID)
				return true
			}
		}
	}
	return false
}

func (c *Coordinator) inAnyQueueLocked(connID uuid.UUID) bool {
	for _, q := range c.queues {
		for _, e := range q {
			if e.ConnID == connID {
				return true
			}
		}
	}
	return false
}

func (c *Coordinator) broadcastQueueLocked(gameTypeID string) {
	q := c.queues[gameTypeID]
	payload := protocol.QueuePayload{QueueLength: len(q)}
	for _, e := range q {
		c.router.ToConn(e.ConnID, protocol.EvtQueueUpdate, payload)
	}
}

// tryMatchLocked forms confirming rooms while the queue holds a full batch.
// Strict FIFO: the first QuickMatchSize entries are taken, no skipping.
// Positions are shuffled so quick-match team pairing is randomized.
func (c *Coordinator) tryMatchLocked(gt game.Type) {
	for len(c.queues[gt.ID]) >= gt.QuickMatchSize {
		batch := c.queues[gt.ID][:gt.QuickMatchSize]
		c.queues[gt.ID] = c.queues[gt.ID][gt.QuickMatchSize:]

		r, err := c.rooms.Allocate(gt)
		if err != nil {
			// Put the batch back; nothing was bound yet.
			c.queues[gt.ID] = append(append([]queueEntry{}, batch...), c.queues[gt.ID]...)
			c.log.Errorf("matchmaking: allocate room: %v", err)
			return
		}
		r.Status = room.StatusConfirming
		r.QuickMatch = true

		positions := rand.Perm(gt.QuickMatchSize)
		for i, e := range batch {
			pos := positions[i]
			r.Players[pos] = &room.PlayerSlot{
				ConnID:     e.ConnID,
				Name:       e.Name,
				Connected:  true,
				EnqueuedAt: e.JoinedAt,
			}
			c.sessions.Bind(e.ConnID, r.ID, pos, gt.ID, false)
			c.router.JoinRoom(r.ID, e.ConnID)
		}
		c.syncHostLocked(r)

		roomID := r.ID
		r.ArmConfirmTimer(gt.ConfirmWindow, func() {
			c.confirmTimeout(roomID)
		})

		c.log.Infof("match formed in room %s for %d players", r.ID, gt.QuickMatchSize)
		view := r.PlayersView()
		for _, e := range batch {
			pos, _ := r.PositionOf(e.ConnID)
			c.router.ToConn(e.ConnID, protocol.EvtMatchFound, protocol.MatchFoundPayload{
				RoomID:         r.ID,
				Position:       pos,
				ConfirmSeconds: int(gt.ConfirmWindow / time.Second),
				Players:        view,
			})
		}
		c.broadcastQueueLocked(gt.ID)
	}
}

// ConfirmMatch marks the caller confirmed and ready; when the last occupied
// slot confirms, the pending deadline is cancelled and the room settles into
// waiting, ready for a normal start.
func (c *Coordinator) ConfirmMatch(connID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, bound := c.sessions.Lookup(connID)
	if !bound {
		return ErrNotConfirming
	}
	r, ok := c.rooms.Get(s.RoomID)
	if !ok || r.Status != room.StatusConfirming {
		return ErrNotConfirming
	}
	slot, ok := r.Players[s.Position]
	if !ok || slot.ConnID != connID {
		c.log.Warnf("room %s: confirm from %s with no matching slot", r.ID, connID)
		return nil
	}

	slot.Confirmed = true
	slot.Ready = true
	c.router.ToRoom(r.ID, protocol.EvtPlayerConfirmed, protocol.PlayerConfirmedPayload{
		Position: s.Position,
		Players:  r.PlayersView(),
	}, uuid.Nil)

	if r.AllConfirmed() {
		c.resolveConfirmLocked(r)
	}
	return nil
}

// resolveConfirmLocked completes the confirmation phase: the deadline task is
// cancelled and the room becomes a normal waiting room.
func (c *Coordinator) resolveConfirmLocked(r *room.Room) {
	r.StopConfirmTimer()
	r.Status = room.StatusWaiting
	c.router.ToRoom(r.ID, protocol.EvtAllConfirmed, protocol.AllConfirmedPayload{
		RoomID:  r.ID,
		Players: r.PlayersView(),
	}, uuid.Nil)
}

// confirmTimeout is the deadline callback. It fires at most once per armed
// timer and re-checks the room still exists and is still confirming: a race
// with ConfirmMatch or a disconnect may already have resolved it.
func (c *Coordinator) confirmTimeout(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.rooms.Get(roomID)
	if !ok || r.Status != room.StatusConfirming {
		return
	}
	gt := r.GameType

	// Partition the batch: confirmed players go back to the queue tail in
	// their original enqueue order, unconfirmed players are evicted.
	type member struct {
		connID     uuid.UUID
		name       string
		confirmed  bool
		enqueuedAt time.Time
	}
	members := make([]member, 0, len(r.Players))
	for _, slot := range r.Players {
		members = append(members, member{
			connID:     slot.ConnID,
			name:       slot.Name,
			confirmed:  slot.Confirmed,
			enqueuedAt: slot.EnqueuedAt,
		})
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].enqueuedAt.Before(members[j].enqueuedAt)
	})

	for _, m := range members {
		c.sessions.Unbind(m.connID)
		c.router.LeaveRoom(roomID, m.connID)
		if m.confirmed {
			c.queues[gt.ID] = append(c.queues[gt.ID], queueEntry{
				ConnID:   m.connID,
				Name:     m.name,
				JoinedAt: time.Now(),
			})
			c.router.ToConn(m.connID, protocol.EvtMatchCancelled, protocol.NoticePayload{
				Message: "A player failed to confirm; you have been returned to the queue",
			})
		} else {
			c.router.ToConn(m.connID, protocol.EvtConfirmTimeout, protocol.NoticePayload{
				Message: "You did not confirm the match in time",
			})
		}
	}

	c.rooms.Delete(roomID)
	c.log.Infof("room %s dissolved on confirmation timeout", roomID)

	c.broadcastQueueLocked(gt.ID)
	c.tryMatchLocked(gt)
}

// QueueLength reports the current queue depth for a game type.
func (c *Coordinator) QueueLength(gameTypeID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queues[gameTypeID])
}

// sessionFor exposes the registry for tests and diagnostics.
func (c *Coordinator) sessionFor(connID uuid.UUID) (session.Session, bool) {
	return c.sessions.Lookup(connID)
}

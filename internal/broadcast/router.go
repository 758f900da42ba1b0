// internal/broadcast/router.go
package broadcast

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dhihaei/gameserver/internal/protocol"
)

// Client is one registered connection's outbound side. Events pushed to a
// Client are drained by its connection's write pump.
type Client struct {
	ID uuid.UUID

	mu     sync.Mutex
	out    chan protocol.Event
	closed bool
	log    *logrus.Logger
}

// Events exposes the outbound channel for the write pump. The channel is
// closed when the client is unregistered.
func (c *Client) Events() <-chan protocol.Event { return c.out }

// send pushes an event without blocking. A slow consumer's event is dropped
// and logged rather than stalling a room-wide broadcast.
func (c *Client) send(ev protocol.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.out <- ev:
	default:
		c.log.Warnf("broadcast: outbox full for %s, dropped %q", c.ID, ev.Type)
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.out)
	}
}

// Router fans events out to every connection bound to a room, or to single
// connections by id. Room membership here mirrors the coordinator's state; the
// coordinator commits its mutation first and then routes notifications, so
// observers never see a broadcast that precedes the state it describes.
type Router struct {
	log *logrus.Logger

	mu    sync.Mutex
	conns map[uuid.UUID]*Client
	rooms map[string]map[uuid.UUID]struct{}
}

// NewRouter returns an empty Router.
func NewRouter(log *logrus.Logger) *Router {
	return &Router{
		log:   log,
		conns: make(map[uuid.UUID]*Client),
		rooms: make(map[string]map[uuid.UUID]struct{}),
	}
}

// Register creates the outbound client for a new connection.
func (rt *Router) Register(connID uuid.UUID) *Client {
	c := &Client{ID: connID, out: make(chan protocol.Event, 32), log: rt.log}
	rt.mu.Lock()
	rt.conns[connID] = c
	rt.mu.Unlock()
	return c
}

// Unregister drops a connection and removes it from every room, closing its
// outbound channel.
func (rt *Router) Unregister(connID uuid.UUID) {
	rt.mu.Lock()
	c := rt.conns[connID]
	delete(rt.conns, connID)
	for roomID, members := range rt.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(rt.rooms, roomID)
		}
	}
	rt.mu.Unlock()
	if c != nil {
		c.close()
	}
}

// JoinRoom adds a connection to a room's recipient set.
func (rt *Router) JoinRoom(roomID string, connID uuid.UUID) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	members, ok := rt.rooms[roomID]
	if !ok {
		members = make(map[uuid.UUID]struct{})
		rt.rooms[roomID] = members
	}
	members[connID] = struct{}{}
}

// LeaveRoom removes a connection from a room's recipient set.
func (rt *Router) LeaveRoom(roomID string, connID uuid.UUID) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	members, ok := rt.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(rt.rooms, roomID)
	}
}

// ToRoom emits an event to every connection in a room. Pass uuid.Nil as
// exclude to reach everyone, or a connection id to skip the sender.
func (rt *Router) ToRoom(roomID, event string, data any, exclude uuid.UUID) {
	ev := protocol.Event{Type: event, Data: data}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for connID := range rt.rooms[roomID] {
		if connID == exclude {
			continue
		}
		if c, ok := rt.conns[connID]; ok {
			c.send(ev)
		}
	}
}

// ToConn emits an event to a single connection. Unknown connections are
// ignored; the race between a broadcast and a disconnect is expected.
func (rt *Router) ToConn(connID uuid.UUID, event string, data any) {
	rt.mu.Lock()
	c, ok := rt.conns[connID]
	rt.mu.Unlock()
	if ok {
		c.send(protocol.Event{Type: event, Data: data})
	}
}

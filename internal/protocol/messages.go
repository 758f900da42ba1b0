// internal/protocol/messages.go
package protocol

import "encoding/json"

// ClientMessage is the inbound envelope. Data is decoded per event type.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Event is the outbound envelope.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// PlayerView is the serialized form of an occupied player position, keyed by
// position in the enclosing map.
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Ready     bool   `json:"ready"`
	Connected bool   `json:"connected"`
	Confirmed bool   `json:"confirmed,omitempty"`
}

// SpectatorView is the serialized form of a spectator, keyed by connection id.
type SpectatorView struct {
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

// Inbound payloads.

type CreateRoomRequest struct {
	PlayerName string `json:"playerName"`
	GameType   string `json:"gameType,omitempty"`
}

type JoinRoomRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type SetReadyRequest struct {
	Ready bool `json:"ready"`
}

type SwapPlayerRequest struct {
	FromPosition int `json:"fromPosition"`
}

// StartGameRequest carries the opaque payloads the coordinator stores and
// relays without interpreting. Hands is keyed by position.
type StartGameRequest struct {
	GameState json.RawMessage         `json:"gameState"`
	Hands     map[int]json.RawMessage `json:"hands"`
}

type UpdateGameStateRequest struct {
	GameState json.RawMessage `json:"gameState"`
}

type JoinQueueRequest struct {
	PlayerName string `json:"playerName"`
	GameType   string `json:"gameType,omitempty"`
}

// Outbound payloads.

type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

type RoomCreatedPayload struct {
	RoomID   string             `json:"roomId"`
	Position int                `json:"position"`
	Players  map[int]PlayerView `json:"players"`
}

type RoomJoinedPayload struct {
	RoomID     string                   `json:"roomId"`
	Position   int                      `json:"position"`
	Spectator  bool                     `json:"spectator,omitempty"`
	Players    map[int]PlayerView       `json:"players"`
	Spectators map[string]SpectatorView `json:"spectators,omitempty"`
	GameState  json.RawMessage          `json:"gameState,omitempty"`
	Hand       json.RawMessage          `json:"hand,omitempty"`
}

type PlayersChangedPayload struct {
	Players    map[int]PlayerView       `json:"players"`
	Spectators map[string]SpectatorView `json:"spectators,omitempty"`
}

type PlayerLeftGamePayload struct {
	Position int                `json:"position"`
	Reason   string             `json:"reason"`
	Players  map[int]PlayerView `json:"players"`
}

type PlayerReconnectedPayload struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
}

type PositionChangedPayload struct {
	FromPosition int                `json:"fromPosition"`
	ToPosition   int                `json:"toPosition"`
	Players      map[int]PlayerView `json:"players"`
}

type GameStartedPayload struct {
	GameState json.RawMessage         `json:"gameState"`
	Hands     map[int]json.RawMessage `json:"hands"`
	Players   map[int]PlayerView      `json:"players"`
}

type RelayPayload struct {
	Position int             `json:"position"`
	Card     json.RawMessage `json:"card,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

type GameStateUpdatedPayload struct {
	GameState json.RawMessage `json:"gameState"`
}

type RoundStartedPayload struct {
	GameState json.RawMessage         `json:"gameState"`
	Hands     map[int]json.RawMessage `json:"hands"`
}

type QueuePayload struct {
	QueueLength int `json:"queueLength"`
}

type MatchFoundPayload struct {
	RoomID         string             `json:"roomId"`
	Position       int                `json:"position"`
	ConfirmSeconds int                `json:"confirmSeconds"`
	Players        map[int]PlayerView `json:"players"`
}

type PlayerConfirmedPayload struct {
	Position int                `json:"position"`
	Players  map[int]PlayerView `json:"players"`
}

type AllConfirmedPayload struct {
	RoomID  string             `json:"roomId"`
	Players map[int]PlayerView `json:"players"`
}

type NoticePayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// internal/coordinator/errors.go
package coordinator

import "errors"

// User-facing validation errors. These reach the initiating connection as an
// error event with the message below; they are never logged as exceptional.
var (
	ErrRoomNotFound     = errors.New("Room not found")
	ErrRoomFull         = errors.New("Room is full")
	ErrGameInProgress   = errors.New("Game already in progress")
	ErrAlreadyInRoom    = errors.New("Already in a room")
	ErrAlreadyQueued    = errors.New("Already in the matchmaking queue")
	ErrInQueue          = errors.New("Leave the matchmaking queue first")
	ErrUnknownGameType  = errors.New("Unknown game type")
	ErrNoQuickMatch     = errors.New("This game type has no quick match")
	ErrNoTeams          = errors.New("This game type has no teams")
	ErrNotHost          = errors.New("Only the host can do that")
	ErrNoPlayerInSlot   = errors.New("No player in that position")
	ErrNotEnoughPlayers = errors.New("Not enough players to start")
	ErrNotAllReady      = errors.New("All players must be ready")
	ErrNotConfirming    = errors.New("Not in a confirmation phase")
)

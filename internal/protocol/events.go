// internal/protocol/events.go
package protocol

// Client -> server event types.
const (
	EvtCreateRoom      = "create_room"
	EvtJoinRoom        = "join_room"
	EvtLeaveRoom       = "leave_room"
	EvtSetReady        = "set_ready"
	EvtSwapPlayer      = "swap_player"
	EvtStartGame       = "start_game"
	EvtCardPlayed      = "card_played"
	EvtCardDrawn       = "card_drawn"
	EvtCardDiscarded   = "card_discarded"
	EvtDeclare         = "declare"
	EvtUpdateGameState = "update_game_state"
	EvtNewRound        = "new_round"
	EvtReadyForRound   = "ready_for_round"
	EvtJoinQueue       = "join_queue"
	EvtLeaveQueue      = "leave_queue"
	EvtConfirmMatch    = "confirm_match"
)

// Server -> client event types.
const (
	EvtConnected           = "connected"
	EvtRoomCreated         = "room_created"
	EvtRoomJoined          = "room_joined"
	EvtPlayersChanged      = "players_changed"
	EvtLeftRoom            = "left_room"
	EvtPlayerLeftGame      = "player_left_game"
	EvtPlayerReconnected   = "player_reconnected"
	EvtPositionChanged     = "position_changed"
	EvtGameStarted         = "game_started"
	EvtRemoteCardPlayed    = "remote_card_played"
	EvtRemoteCardDrawn     = "remote_card_drawn"
	EvtRemoteCardDiscarded = "remote_card_discarded"
	EvtRemoteDeclare       = "remote_declare"
	EvtGameStateUpdated    = "game_state_updated"
	EvtRoundStarted        = "round_started"
	EvtAllReadyForRound    = "all_ready_for_round"
	EvtQueueJoined         = "queue_joined"
	EvtQueueLeft           = "queue_left"
	EvtQueueUpdate         = "queue_update"
	EvtMatchFound          = "match_found"
	EvtPlayerConfirmed     = "player_confirmed"
	EvtAllConfirmed        = "all_confirmed"
	EvtConfirmTimeout      = "confirmation_timeout"
	EvtMatchCancelled      = "match_cancelled"
	EvtRoomClosed          = "room_closed"
	EvtError               = "error"
)

// RelayEvent maps an inbound gameplay relay event to the event name the rest
// of the room receives. Returns false for non-relay events.
func RelayEvent(inbound string) (string, bool) {
	switch inbound {
	case EvtCardPlayed:
		return EvtRemoteCardPlayed, true
	case EvtCardDrawn:
		return EvtRemoteCardDrawn, true
	case EvtCardDiscarded:
		return EvtRemoteCardDiscarded, true
	case EvtDeclare:
		return EvtRemoteDeclare, true
	default:
		return "", false
	}
}

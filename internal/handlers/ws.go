// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dhihaei/gameserver/internal/broadcast"
	"github.com/dhihaei/gameserver/internal/coordinator"
	"github.com/dhihaei/gameserver/internal/protocol"
)

// WSHandler upgrades the connection, registers it with the broadcast router,
// and pumps events between the socket and the coordinator until the client
// goes away.
func WSHandler(logger *logrus.Logger, coord *coordinator.Coordinator, router *broadcast.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust in production.
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		connID := uuid.New()
		client := router.Register(connID)
		logger.Infof("client %s connected from %s", connID, r.RemoteAddr)

		router.ToConn(connID, protocol.EvtConnected, protocol.ConnectedPayload{
			ConnectionID: connID.String(),
		})

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go writePump(ctx, c, client, logger)

		readPump(ctx, c, connID, coord, router, logger)

		// Reader is done: tear down the session and queue membership, then
		// drop the outbound side.
		logger.Infof("client %s disconnected", connID)
		coord.Disconnect(connID)
		router.Unregister(connID)
	}
}

// readPump decodes inbound envelopes and dispatches them. Coordinator
// validation errors go back to the caller as error events; the connection
// stays up.
func readPump(ctx context.Context, c *websocket.Conn, connID uuid.UUID, coord *coordinator.Coordinator, router *broadcast.Router, logger *logrus.Logger) {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				if ctx.Err() == nil {
					logger.Warnf("client %s read error: %v", connID, err)
				}
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		var msg protocol.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			router.ToConn(connID, protocol.EvtError, protocol.ErrorPayload{Message: "Invalid JSON"})
			continue
		}

		if err := dispatch(connID, msg, coord); err != nil {
			router.ToConn(connID, protocol.EvtError, protocol.ErrorPayload{Message: err.Error()})
		}
	}
}

// dispatch maps one inbound event to its coordinator operation.
func dispatch(connID uuid.UUID, msg protocol.ClientMessage, coord *coordinator.Coordinator) error {
	switch msg.Type {
	case protocol.EvtCreateRoom:
		var req protocol.CreateRoomRequest
		if err := decode(msg.Data, &req); err != nil {
			return err
		}
		return coord.CreateRoom(connID, req.PlayerName, req.GameType)

	case protocol.EvtJoinRoom:
		var req protocol.JoinRoomRequest
		if err := decode(msg.Data, &req); err != nil {
			return err
		}
		return coord.JoinRoom(connID, req.RoomID, req.PlayerName)

	case protocol.EvtLeaveRoom:
		return coord.LeaveRoom(connID)

	case protocol.EvtSetReady:
		var req protocol.SetReadyRequest
		if err := decode(msg.Data, &req); err != nil {
			return err
		}
		return coord.SetReady(connID, req.Ready)

	case protocol.EvtSwapPlayer:
		var req protocol.SwapPlayerRequest
		if err := decode(msg.Data, &req); err != nil {
			return err
		}
		return coord.SwapPlayer(connID, req.FromPosition)

	case protocol.EvtStartGame:
		var req protocol.StartGameRequest
		if err := decode(msg.Data, &req); err != nil {
			return err
		}
		return coord.StartGame(connID, req.GameState, req.Hands)

	case protocol.EvtCardPlayed, protocol.EvtCardDrawn, protocol.EvtCardDiscarded, protocol.EvtDeclare:
		return coord.Relay(connID, msg.Type, msg.Data)

	case protocol.EvtUpdateGameState:
		var req protocol.UpdateGameStateRequest
		if err := decode(msg.Data, &req); err != nil {
			return err
		}
		return coord.UpdateGameState(connID, req.GameState)

	case protocol.EvtNewRound:
		var req protocol.StartGameRequest
		if err := decode(msg.Data, &req); err != nil {
			return err
		}
		return coord.NewRound(connID, req.GameState, req.Hands)

	case protocol.EvtReadyForRound:
		return coord.ReadyForRound(connID)

	case protocol.EvtJoinQueue:
		var req protocol.JoinQueueRequest
		if err := decode(msg.Data, &req); err != nil {
			return err
		}
		return coord.JoinQueue(connID, req.PlayerName, req.GameType)

	case protocol.EvtLeaveQueue:
		return coord.LeaveQueue(connID)

	case protocol.EvtConfirmMatch:
		return coord.ConfirmMatch(connID)

	default:
		return errUnknownEvent(msg.Type)
	}
}

func errUnknownEvent(t string) error {
	return fmt.Errorf("Unknown event type: %s", t)
}

var errInvalidPayload = errors.New("Invalid payload")

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errInvalidPayload
	}
	return nil
}

// writePump drains the client's outbox onto the socket and keeps the
// connection alive with periodic pings.
func writePump(ctx context.Context, c *websocket.Conn, client *broadcast.Client, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-client.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Warnf("client %s: marshal outbound %q: %v", client.ID, ev.Type, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// serveWS upgrades to WebSocket, streams a tree snapshot after every
// editor change and applies client messages until either side hangs up.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	snapshots, err := s.editor.Subscribe(ctx)
	if err != nil {
		_ = conn.Close(websocket.StatusInternalError, "editor unavailable")
		return
	}

	sessionID := uuid.NewString()
	logger := s.logger.With().Str("session", sessionID).Logger()
	logger.Info().Msg("websocket session opened")
	defer logger.Info().Msg("websocket session closed")

	s.send(ctx, conn, logger, ServerMessage{Type: "session", Data: SessionData{SessionID: sessionID}})

	go func() {
		for snap := range snapshots {
			if err := wsjson.Write(ctx, conn, ServerMessage{Type: "tree", Data: snap}); err != nil {
				cancel()
				return
			}
		}
		if ctx.Err() == nil {
			_ = conn.Close(websocket.StatusGoingAway, "editor closed")
		}
	}()

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				logger.Debug().Int("status", int(status)).Msg("connection closed")
			}
			return
		}
		s.handleMessage(ctx, conn, logger, msg)
	}
}

func (s *Server) handleMessage(ctx context.Context, conn *websocket.Conn, logger zerolog.Logger, msg ClientMessage) {
	var data RowData
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			s.sendError(ctx, conn, logger, msg.ID, "INVALID_DATA", "invalid message data")
			return
		}
	}

	var (
		reply any
		err   error
	)
	switch msg.Type {
	case "ping":
		s.send(ctx, conn, logger, ServerMessage{Type: "pong", RequestID: msg.ID})
		return
	case "edit":
		err = s.editor.Edit(ctx, data.RowID, data.Value)
	case "pick":
		err = s.editor.Pick(ctx, data.RowID, data.Value)
	case "activate":
		err = s.editor.Activate(ctx, data.RowID)
	case "remove":
		err = s.editor.Remove(ctx, data.RowID)
	case "select":
		reply, err = s.editor.Select(ctx, data.RowID)
	case "add_ship":
		var id string
		id, err = s.editor.AddShip(ctx)
		reply = RowIDData{RowID: id}
	case "add_door":
		var id string
		id, err = s.editor.AddDoor(ctx, data.RowID)
		reply = RowIDData{RowID: id}
	case "save":
		reply, err = s.editor.Save(ctx)
	default:
		s.sendError(ctx, conn, logger, msg.ID, "UNKNOWN_TYPE", fmt.Sprintf("unknown message type: %s", msg.Type))
		return
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		_, code := classify(err)
		s.sendError(ctx, conn, logger, msg.ID, code, err.Error())
		return
	}
	s.send(ctx, conn, logger, ServerMessage{Type: "ok", RequestID: msg.ID, Data: reply})
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, logger zerolog.Logger, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		logger.Debug().Err(err).Str("type", msg.Type).Msg("websocket write")
	}
}

func (s *Server) sendError(ctx context.Context, conn *websocket.Conn, logger zerolog.Logger, requestID, code, message string) {
	s.send(ctx, conn, logger, ServerMessage{
		Type:      "error",
		RequestID: requestID,
		Data: ErrorData{
			Code:    code,
			Message: message,
		},
	})
}

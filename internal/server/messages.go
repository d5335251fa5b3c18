package server

import "encoding/json"

// ClientMessage is the envelope for all client-to-server WebSocket messages.
type ClientMessage struct {
	Type string          `json:"type"` // edit, activate, pick, remove, select, add_ship, add_door, save, ping
	ID   string          `json:"id"`   // client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// RowData is the payload of row messages.
type RowData struct {
	RowID string `json:"row_id"`
	Value string `json:"value,omitempty"`
}

// ServerMessage is the envelope for all server-to-client WebSocket messages.
type ServerMessage struct {
	Type      string `json:"type"` // session, tree, ok, error, pong
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// SessionData is sent once after the connection opens.
type SessionData struct {
	SessionID string `json:"session_id"`
}

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RowIDData answers messages that create a row.
type RowIDData struct {
	RowID string `json:"row_id"`
}

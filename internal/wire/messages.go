// Package wire defines the WebSocket protocol for live form editing.
package wire

import (
	json "github.com/goccy/go-json"

	"github.com/docflow/docflow/internal/render"
)

// ── Client → Server messages ────────────────────────────────────────────────

// ClientMessage is the envelope for all client-to-server WebSocket messages.
type ClientMessage struct {
	Type string          `json:"type"` // "open", "edit", "export", "submit", "ping"
	ID   string          `json:"id"`   // Client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// OpenData is the payload for "open" messages.
type OpenData struct {
	DocumentID string `json:"document_id"`
}

// EditData is the payload for "edit" messages. Path is the dot-joined
// key path of the control being edited, as carried on the rendered form.
type EditData struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// ── Server → Client messages ────────────────────────────────────────────────

// ServerMessage is the envelope for all server-to-client WebSocket messages.
type ServerMessage struct {
	Type      string `json:"type"`                 // "session", "form", "ack", "export", "saved", "error", "pong"
	RequestID string `json:"request_id,omitempty"` // Echoes client ID
	Data      any    `json:"data,omitempty"`
}

// SessionData is sent once after the connection is accepted.
type SessionData struct {
	SessionID string `json:"session_id"`
}

// FormData carries a rendered form in reply to "open".
type FormData struct {
	DocumentID string       `json:"document_id"`
	Form       *render.Form `json:"form"`
}

// AckData confirms an overlay write.
type AckData struct {
	Path    string `json:"path"`
	Pending int    `json:"pending"` // unsaved edits in the session overlay
}

// ExportData carries a snapshot of the session overlay.
type ExportData struct {
	DocumentID string         `json:"document_id"`
	Values     map[string]any `json:"values"`
}

// SavedData confirms a submit was persisted.
type SavedData struct {
	DocumentID string `json:"document_id"`
	Applied    int    `json:"applied"` // overlay edits merged into the document
}

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

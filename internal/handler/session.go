package handler

import (
	"net/http"

	"github.com/docflow/docflow/internal/session"
)

// SessionHandler serves REST session management. WebSocket connections make
// their own sessions; this endpoint exists for hosts that poll forms over
// HTTP and want edit isolation anyway.
type SessionHandler struct {
	sessions *session.Manager
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// CreateSession creates a detached edit session.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	writeJSON(w, http.StatusCreated, s)
}

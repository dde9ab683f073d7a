package wire

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	json "github.com/goccy/go-json"

	"github.com/docflow/docflow/internal/catalog"
	"github.com/docflow/docflow/internal/document"
	"github.com/docflow/docflow/internal/event"
	"github.com/docflow/docflow/internal/eventbus"
	"github.com/docflow/docflow/internal/render"
	"github.com/docflow/docflow/internal/session"
	"github.com/docflow/docflow/internal/store"
)

// Handler manages WebSocket connections for live form editing.
type Handler struct {
	sessions  *session.Manager
	store     store.Store
	templates *catalog.Registry
	bus       *eventbus.Bus
}

// NewHandler creates a WebSocket handler with all dependencies.
func NewHandler(sessions *session.Manager, st store.Store, templates *catalog.Registry, bus *eventbus.Bus) *Handler {
	return &Handler{
		sessions:  sessions,
		store:     st,
		templates: templates,
		bus:       bus,
	}
}

// ServeHTTP upgrades to WebSocket and runs the message loop.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("wire: websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	sess := h.sessions.Create()
	defer h.sessions.Remove(sess.ID)
	ctx := r.Context()

	h.send(ctx, conn, ServerMessage{
		Type: "session",
		Data: SessionData{SessionID: sess.ID},
	})

	for {
		var msg ClientMessage
		err := wsjson.Read(ctx, conn, &msg)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("wire: connection closed: %v", websocket.CloseStatus(err))
			}
			return
		}
		sess.Touch()

		switch msg.Type {
		case "open":
			h.handleOpen(ctx, conn, sess, msg)
		case "edit":
			h.handleEdit(ctx, conn, sess, msg)
		case "export":
			h.handleExport(ctx, conn, sess, msg)
		case "submit":
			h.handleSubmit(ctx, conn, sess, msg)
		case "ping":
			h.send(ctx, conn, ServerMessage{Type: "pong", RequestID: msg.ID})
		default:
			h.sendError(ctx, conn, msg.ID, "unknown_type", fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

func (h *Handler) handleOpen(ctx context.Context, conn *websocket.Conn, sess *session.Session, msg ClientMessage) {
	var data OpenData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid open data")
		return
	}
	if data.DocumentID == "" {
		h.sendError(ctx, conn, msg.ID, "empty_document_id", "document_id is required")
		return
	}

	entry, err := h.store.Get(ctx, data.DocumentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.sendError(ctx, conn, msg.ID, "not_found", fmt.Sprintf("no document %s", data.DocumentID))
			return
		}
		h.sendError(ctx, conn, msg.ID, "store_error", err.Error())
		return
	}

	// Attaching discards any edits against a previously opened document.
	sess.Attach(entry.ID)
	form := render.New(h.templates.CatalogFor(entry.Template), sess.Overlay()).Render(entry.Document)
	h.send(ctx, conn, ServerMessage{
		Type:      "form",
		RequestID: msg.ID,
		Data:      FormData{DocumentID: entry.ID, Form: form},
	})
}

func (h *Handler) handleEdit(ctx context.Context, conn *websocket.Conn, sess *session.Session, msg ClientMessage) {
	if sess.DocumentID == "" {
		h.sendError(ctx, conn, msg.ID, "no_document", "open a document before editing")
		return
	}
	var data EditData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid edit data")
		return
	}
	if data.Path == "" {
		h.sendError(ctx, conn, msg.ID, "empty_path", "edit path is required")
		return
	}

	sess.Overlay().Set(data.Path, data.Value)
	h.send(ctx, conn, ServerMessage{
		Type:      "ack",
		RequestID: msg.ID,
		Data:      AckData{Path: data.Path, Pending: sess.Overlay().Len()},
	})
}

func (h *Handler) handleExport(ctx context.Context, conn *websocket.Conn, sess *session.Session, msg ClientMessage) {
	if sess.DocumentID == "" {
		h.sendError(ctx, conn, msg.ID, "no_document", "open a document before exporting")
		return
	}

	values := sess.Overlay().Export()
	h.bus.Publish(ctx, event.NewDraftExported(event.DraftExportedPayload{
		DocumentID: sess.DocumentID,
		SessionID:  sess.ID,
		Edits:      len(values),
	}))
	h.send(ctx, conn, ServerMessage{
		Type:      "export",
		RequestID: msg.ID,
		Data:      ExportData{DocumentID: sess.DocumentID, Values: values},
	})
}

func (h *Handler) handleSubmit(ctx context.Context, conn *websocket.Conn, sess *session.Session, msg ClientMessage) {
	if sess.DocumentID == "" {
		h.sendError(ctx, conn, msg.ID, "no_document", "open a document before submitting")
		return
	}

	entry, err := h.store.Get(ctx, sess.DocumentID)
	if err != nil {
		h.sendError(ctx, conn, msg.ID, "store_error", err.Error())
		return
	}

	edits := sess.Overlay().Export()
	doc := document.Clone(entry.Document)
	applied := 0

	// Stable apply order so a malformed path fails the same way every time.
	paths := make([]string, 0, len(edits))
	for p := range edits {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := document.ApplyPath(doc, p, edits[p]); err != nil {
			h.sendError(ctx, conn, msg.ID, "bad_path", err.Error())
			return
		}
		applied++
	}

	entry.Document = doc
	entry.UpdatedAt = time.Now()
	if err := h.store.Set(ctx, entry); err != nil {
		h.sendError(ctx, conn, msg.ID, "store_error", err.Error())
		return
	}

	h.bus.Publish(ctx, event.NewDocumentSaved(event.DocumentSavedPayload{
		DocumentID: entry.ID,
		Title:      entry.Title,
		Template:   entry.Template,
		Sections:   len(doc.SectionOrder()),
		Leaves:     doc.LeafCount(),
		Rebuild:    true,
	}))

	// A successful submit clears the pending edits.
	sess.Attach(entry.ID)
	h.send(ctx, conn, ServerMessage{
		Type:      "saved",
		RequestID: msg.ID,
		Data:      SavedData{DocumentID: entry.ID, Applied: applied},
	})
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		log.Printf("wire: write error: %v", err)
	}
}

func (h *Handler) sendError(ctx context.Context, conn *websocket.Conn, requestID, code, message string) {
	h.send(ctx, conn, ServerMessage{
		Type:      "error",
		RequestID: requestID,
		Data:      ErrorData{Code: code, Message: message},
	})
}

// Package handler implements the HTTP API over the document service.
package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/catalog"
	"github.com/docflow/docflow/internal/document"
	"github.com/docflow/docflow/internal/event"
	"github.com/docflow/docflow/internal/eventbus"
	"github.com/docflow/docflow/internal/render"
	"github.com/docflow/docflow/internal/session"
	"github.com/docflow/docflow/internal/store"
)

// DocumentHandler serves document CRUD and form rendering.
type DocumentHandler struct {
	store     store.Store
	templates *catalog.Registry
	sessions  *session.Manager
	bus       *eventbus.Bus
}

// NewDocumentHandler creates a document handler with all dependencies.
func NewDocumentHandler(st store.Store, templates *catalog.Registry, sessions *session.Manager, bus *eventbus.Bus) *DocumentHandler {
	return &DocumentHandler{store: st, templates: templates, sessions: sessions, bus: bus}
}

// SubmissionRequest is the body for creating or rebuilding a document. When
// Template names a loaded template and Fields is empty, the template's
// declared fields and sections are used.
type SubmissionRequest struct {
	Title    string            `json:"title"`
	Template string            `json:"template,omitempty"`
	Sections []catalog.Section `json:"sections,omitempty"`
	Fields   []catalog.Field   `json:"fields,omitempty"`
}

// resolve fills in declarations from the named template when the request
// carries none of its own.
func (req *SubmissionRequest) resolve(templates *catalog.Registry) error {
	if len(req.Fields) > 0 {
		return nil
	}
	if req.Template == "" {
		return nil
	}
	t, ok := templates.Get(req.Template)
	if !ok {
		return errors.New("unknown template: " + req.Template)
	}
	req.Fields = t.Fields
	if len(req.Sections) == 0 {
		req.Sections = t.Sections
	}
	return nil
}

// CreateDocument builds a new document from submitted definitions and
// persists it.
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req SubmissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := req.resolve(h.templates); err != nil {
		writeError(w, http.StatusBadRequest, "UNKNOWN_TEMPLATE", err.Error())
		return
	}
	if err := document.ValidateSubmission(req.Title, req.Fields); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	doc := document.Build(req.Fields, req.Sections)
	now := time.Now()
	entry := store.Entry{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Template:  req.Template,
		Document:  doc,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.Set(r.Context(), entry); err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	h.bus.Publish(r.Context(), event.NewDocumentSaved(event.DocumentSavedPayload{
		DocumentID: entry.ID,
		Title:      entry.Title,
		Template:   entry.Template,
		Sections:   len(doc.SectionOrder()),
		Leaves:     doc.LeafCount(),
	}))
	writeJSON(w, http.StatusCreated, entry)
}

// RebuildDocument reconstructs a stored document from the submitted
// definitions, preserving stored values and retaining undeclared branches.
func (h *DocumentHandler) RebuildDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	var req SubmissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := req.resolve(h.templates); err != nil {
		writeError(w, http.StatusBadRequest, "UNKNOWN_TEMPLATE", err.Error())
		return
	}
	if err := document.ValidateSubmission(req.Title, req.Fields); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	prev, err := h.store.Get(r.Context(), id.String())
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	doc := document.Rebuild(req.Fields, req.Sections, prev.Document)
	entry := store.Entry{
		ID:        prev.ID,
		Title:     req.Title,
		Template:  req.Template,
		Document:  doc,
		CreatedAt: prev.CreatedAt,
		UpdatedAt: time.Now(),
	}
	if entry.Template == "" {
		entry.Template = prev.Template
	}
	if err := h.store.Set(r.Context(), entry); err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	h.bus.Publish(r.Context(), event.NewDocumentSaved(event.DocumentSavedPayload{
		DocumentID: entry.ID,
		Title:      entry.Title,
		Template:   entry.Template,
		Sections:   len(doc.SectionOrder()),
		Leaves:     doc.LeafCount(),
		Rebuild:    true,
	}))
	writeJSON(w, http.StatusOK, entry)
}

// GetDocument returns the raw stored document entry.
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	entry, err := h.store.Get(r.Context(), id.String())
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// ListDocuments returns all stored entries, most recently updated first.
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context())
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": entries,
		"count":     len(entries),
	})
}

// DeleteDocument removes a stored entry.
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	entry, err := h.store.Get(r.Context(), id.String())
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if err := h.store.Delete(r.Context(), id.String()); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	h.bus.Publish(r.Context(), event.NewDocumentDeleted(event.DocumentDeletedPayload{
		DocumentID: entry.ID,
		Title:      entry.Title,
	}))
	w.WriteHeader(http.StatusNoContent)
}

// GetForm renders the stored document as a control tree. An optional
// session_id query parameter binds the render to that session's overlay so
// pending edits shadow stored values.
func (h *DocumentHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	entry, err := h.store.Get(r.Context(), id.String())
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	var overlay *render.Overlay
	if sid := r.URL.Query().Get("session_id"); sid != "" {
		sess := h.sessions.Get(sid)
		if sess == nil {
			writeError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "no session "+sid)
			return
		}
		sess.Touch()
		overlay = sess.Overlay()
	}

	form := render.New(h.templates.CatalogFor(entry.Template), overlay).Render(entry.Document)
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": entry.ID,
		"title":       entry.Title,
		"form":        form,
	})
}

// storeErrorToHTTP maps store errors to HTTP responses.
func storeErrorToHTTP(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	log.Printf("internal error: %v", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// Package event defines the lifecycle events published by the document
// service. The core stays free of side effects; hosts subscribe to these
// events for toasts, navigation, or audit trails.
package event

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// DomainEvent carries the canonical shape of every lifecycle event.
type DomainEvent struct {
	ID         string
	EventType  string
	OccurredAt time.Time
	DocumentID string
	Summary    string
	Payload    json.RawMessage
}

func newID() string { return uuid.New().String() }

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// DocumentSavedPayload carries event-specific data for DocumentSaved.
type DocumentSavedPayload struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Template   string `json:"template,omitempty"`
	Sections   int    `json:"sections"`
	Leaves     int    `json:"leaves"`
	Rebuild    bool   `json:"rebuild"`
}

// NewDocumentSaved records a document written through the build path.
func NewDocumentSaved(p DocumentSavedPayload) DomainEvent {
	verb := "created"
	if p.Rebuild {
		verb = "rebuilt"
	}
	return DomainEvent{
		ID:         newID(),
		EventType:  "document_saved",
		OccurredAt: time.Now(),
		DocumentID: p.DocumentID,
		Summary:    fmt.Sprintf("Document %q %s (%d sections, %d fields)", p.Title, verb, p.Sections, p.Leaves),
		Payload:    mustJSON(p),
	}
}

// DocumentDeletedPayload carries event-specific data for DocumentDeleted.
type DocumentDeletedPayload struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
}

// NewDocumentDeleted records a document removal.
func NewDocumentDeleted(p DocumentDeletedPayload) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "document_deleted",
		OccurredAt: time.Now(),
		DocumentID: p.DocumentID,
		Summary:    fmt.Sprintf("Document %q deleted", p.Title),
		Payload:    mustJSON(p),
	}
}

// DraftExportedPayload carries event-specific data for DraftExported.
type DraftExportedPayload struct {
	DocumentID string `json:"document_id"`
	SessionID  string `json:"session_id"`
	Edits      int    `json:"edits"`
}

// NewDraftExported records an overlay snapshot handed to the host.
func NewDraftExported(p DraftExportedPayload) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "draft_exported",
		OccurredAt: time.Now(),
		DocumentID: p.DocumentID,
		Summary:    fmt.Sprintf("Draft with %d edits exported from session %s", p.Edits, p.SessionID),
		Payload:    mustJSON(p),
	}
}

// TemplatesLoadedPayload carries event-specific data for TemplatesLoaded.
type TemplatesLoadedPayload struct {
	Dir   string `json:"dir"`
	Count int    `json:"count"`
}

// NewTemplatesLoaded records a catalog load from CUE definitions.
func NewTemplatesLoaded(p TemplatesLoadedPayload) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "templates_loaded",
		OccurredAt: time.Now(),
		Summary:    fmt.Sprintf("Loaded %d templates from %s", p.Count, p.Dir),
		Payload:    mustJSON(p),
	}
}

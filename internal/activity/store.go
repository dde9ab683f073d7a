// Package activity records the document lifecycle event history so hosts can
// show an audit trail per document.
package activity

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
)

// Entry is one recorded lifecycle event.
type Entry struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	DocumentID string          `json:"document_id,omitempty"`
	Summary    string          `json:"summary"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// QueryOptions controls filtering and pagination for activity queries.
type QueryOptions struct {
	DocumentID string     // restrict to one document
	Types      []string   // filter to specific event types
	Since      *time.Time // filter by time
	Until      *time.Time
	Limit      int    // max results (default: 50, max: 500)
	Cursor     string // RFC3339Nano timestamp from a previous page
}

// DefaultQueryOptions returns QueryOptions with sensible defaults.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{Limit: 50}
}

// Store is the interface for reading and writing activity entries.
type Store interface {
	// Write appends one entry.
	Write(ctx context.Context, e Entry) error

	// Query returns entries newest first, with cursor pagination.
	Query(ctx context.Context, opts QueryOptions) (entries []Entry, nextCursor string, totalCount int, err error)
}

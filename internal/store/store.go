// Package store persists nested form documents. The contract is an opaque
// upsert/get by ID: no key enumeration order survives a round trip, which is
// why documents carry their own order metadata.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/docflow/docflow/internal/document"
)

// ErrNotFound is returned when no document exists for an ID.
var ErrNotFound = errors.New("store: document not found")

// Entry is one stored document with its submission metadata.
type Entry struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Template  string            `json:"template,omitempty"`
	Document  document.Document `json:"document"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store is the interface for reading and writing document entries.
type Store interface {
	// Set writes an entry, replacing any previous document under the same
	// ID. There is no partial update; the save path always rebuilds.
	Set(ctx context.Context, e Entry) error

	// Get returns the entry for an ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Entry, error)

	// List returns all entries, most recently updated first.
	List(ctx context.Context) ([]Entry, error)

	// Delete removes an entry. Deleting an absent ID returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

package activity

import (
	"context"

	"github.com/docflow/docflow/internal/event"
)

// Recorder subscribes to the event bus and writes every lifecycle event into
// an activity store.
type Recorder struct {
	store Store
}

// NewRecorder creates a recorder writing to the given store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// HandleEvent implements eventbus.Handler.
func (r *Recorder) HandleEvent(ctx context.Context, evt event.DomainEvent) error {
	return r.store.Write(ctx, Entry{
		EventID:    evt.ID,
		EventType:  evt.EventType,
		OccurredAt: evt.OccurredAt,
		DocumentID: evt.DocumentID,
		Summary:    evt.Summary,
		Payload:    evt.Payload,
	})
}

package eventbus

import (
	"context"
	"log"

	"github.com/docflow/docflow/internal/event"
)

// LogConsumer logs all lifecycle events for observability.
type LogConsumer struct{}

func NewLogConsumer() *LogConsumer { return &LogConsumer{} }

func (c *LogConsumer) HandleEvent(_ context.Context, evt event.DomainEvent) error {
	if evt.DocumentID != "" {
		log.Printf("event: %s doc=%s %s", evt.EventType, evt.DocumentID, evt.Summary)
		return nil
	}
	log.Printf("event: %s %s", evt.EventType, evt.Summary)
	return nil
}

package eventbus

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docflow/docflow/internal/event"
)

func TestBus_PublishAndDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := New(8)
	var handled atomic.Int32
	bus.Subscribe("counter", HandlerFunc(func(_ context.Context, evt event.DomainEvent) error {
		if evt.EventType == "document_saved" {
			handled.Add(1)
		}
		return nil
	}))
	bus.Start(ctx)

	for i := 0; i < 3; i++ {
		bus.Publish(ctx, event.NewDocumentSaved(event.DocumentSavedPayload{
			DocumentID: "d", Title: "t", Sections: 1, Leaves: 1,
		}))
	}

	deadline := time.After(2 * time.Second)
	for handled.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("handled %d events, want 3", handled.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestBus_StopBeforeCancelDrainsAndReturns(t *testing.T) {
	// Stop must terminate the consumer even while the start context is
	// still live, delivering everything already buffered.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := New(8)
	var handled atomic.Int32
	bus.Subscribe("counter", HandlerFunc(func(_ context.Context, _ event.DomainEvent) error {
		handled.Add(1)
		return nil
	}))
	bus.Start(ctx)

	for i := 0; i < 2; i++ {
		bus.Publish(ctx, event.NewDocumentSaved(event.DocumentSavedPayload{
			DocumentID: "d", Title: "t", Sections: 1, Leaves: 1,
		}))
	}

	stopped := make(chan struct{})
	go func() {
		bus.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return while start context was live")
	}
	if got := handled.Load(); got != 2 {
		t.Errorf("handled %d events, want 2", got)
	}
}

func TestBus_DropsWhenFull(t *testing.T) {
	// Never started: the buffer fills and extra publishes drop instead of
	// blocking the caller.
	bus := New(1)
	ctx := context.Background()
	evt := event.NewDocumentDeleted(event.DocumentDeletedPayload{DocumentID: "d", Title: "t"})
	bus.Publish(ctx, evt)

	done := make(chan struct{})
	go func() {
		bus.Publish(ctx, evt)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full buffer")
	}
}

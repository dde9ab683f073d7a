package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docflow/docflow/internal/event"
)

func writeN(t *testing.T, s *MemoryStore, docID string, n int, base time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, s.Write(context.Background(), Entry{
			EventID:    docID + "-" + time.Duration(i).String(),
			EventType:  "document_saved",
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
			DocumentID: docID,
			Summary:    "saved",
		}))
	}
}

func TestQueryByDocument(t *testing.T) {
	s := NewMemoryStore()
	base := time.Now().Add(-time.Hour)
	writeN(t, s, "doc-a", 3, base)
	writeN(t, s, "doc-b", 2, base)

	entries, _, total, err := s.Query(context.Background(), QueryOptions{DocumentID: "doc-a"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	for _, e := range entries {
		assert.Equal(t, "doc-a", e.DocumentID)
	}
	// Newest first.
	assert.True(t, entries[0].OccurredAt.After(entries[1].OccurredAt))
}

func TestQueryTypeFilter(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	require.NoError(t, s.Write(context.Background(), Entry{EventID: "1", EventType: "document_saved", OccurredAt: now}))
	require.NoError(t, s.Write(context.Background(), Entry{EventID: "2", EventType: "document_deleted", OccurredAt: now}))

	entries, _, total, err := s.Query(context.Background(), QueryOptions{Types: []string{"document_deleted"}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "2", entries[0].EventID)
}

func TestQueryPagination(t *testing.T) {
	s := NewMemoryStore()
	writeN(t, s, "doc-a", 5, time.Now().Add(-time.Hour))

	first, cursor, total, err := s.Query(context.Background(), QueryOptions{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, first, 3)
	require.NotEmpty(t, cursor)

	rest, next, _, err := s.Query(context.Background(), QueryOptions{Limit: 3, Cursor: cursor})
	require.NoError(t, err)
	assert.Len(t, rest, 2)
	assert.Empty(t, next)
	// No overlap across pages.
	assert.True(t, rest[0].OccurredAt.Before(first[len(first)-1].OccurredAt))
}

func TestRecorder(t *testing.T) {
	s := NewMemoryStore()
	r := NewRecorder(s)

	evt := event.NewDocumentSaved(event.DocumentSavedPayload{
		DocumentID: "doc-a",
		Title:      "T",
		Sections:   2,
		Leaves:     5,
	})
	require.NoError(t, r.HandleEvent(context.Background(), evt))

	entries, _, total, err := s.Query(context.Background(), DefaultQueryOptions())
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, evt.ID, entries[0].EventID)
	assert.Equal(t, "document_saved", entries[0].EventType)
	assert.Equal(t, "doc-a", entries[0].DocumentID)
}

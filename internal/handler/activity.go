package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/docflow/docflow/internal/activity"
)

// ActivityHandler serves the recorded event history.
type ActivityHandler struct {
	store activity.Store
}

// NewActivityHandler creates an activity handler.
func NewActivityHandler(store activity.Store) *ActivityHandler {
	return &ActivityHandler{store: store}
}

// ListActivity returns recorded events, newest first. Supports type, since,
// limit, and cursor query parameters.
func (h *ActivityHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, "")
}

// DocumentActivity returns recorded events for one document.
func (h *ActivityHandler) DocumentActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	h.query(w, r, id.String())
}

func (h *ActivityHandler) query(w http.ResponseWriter, r *http.Request, documentID string) {
	opts := activity.DefaultQueryOptions()
	opts.DocumentID = documentID

	q := r.URL.Query()
	if ts := q["type"]; len(ts) > 0 {
		opts.Types = ts
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_SINCE", "since must be RFC3339")
			return
		}
		opts.Since = &since
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Limit = n
		}
	}
	opts.Cursor = q.Get("cursor")

	entries, next, total, err := h.store.Query(r.Context(), opts)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":     entries,
		"total":       total,
		"next_cursor": next,
	})
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docflow/docflow/internal/catalog"
)

// TemplateHandler serves the loaded template catalog.
type TemplateHandler struct {
	templates *catalog.Registry
}

// NewTemplateHandler creates a template handler.
func NewTemplateHandler(templates *catalog.Registry) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// templateSummary is the list-view shape: declarations trimmed to counts.
type templateSummary struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Sections int    `json:"sections"`
	Fields   int    `json:"fields"`
}

// ListTemplates returns summaries of all loaded templates.
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	ts := h.templates.Templates()
	out := make([]templateSummary, 0, len(ts))
	for _, t := range ts {
		out = append(out, templateSummary{
			Name:     t.Name,
			Title:    t.Title,
			Sections: len(t.Sections),
			Fields:   len(t.Fields),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"templates": out,
		"count":     len(out),
	})
}

// GetTemplate returns one template's full declarations.
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	t, ok := h.templates.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no template "+name)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

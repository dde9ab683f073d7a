// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docflow/docflow/internal/activity"
	"github.com/docflow/docflow/internal/catalog"
	"github.com/docflow/docflow/internal/eventbus"
	"github.com/docflow/docflow/internal/handler"
	"github.com/docflow/docflow/internal/session"
	"github.com/docflow/docflow/internal/store"
	"github.com/docflow/docflow/internal/wire"
)

// Config holds server dependencies.
type Config struct {
	Port      int
	Store     store.Store
	Templates *catalog.Registry
	Sessions  *session.Manager
	Bus       *eventbus.Bus
	Activity  activity.Store
}

// Router builds the chi router with all routes registered.
func Router(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	dh := handler.NewDocumentHandler(cfg.Store, cfg.Templates, cfg.Sessions, cfg.Bus)
	r.Route("/v1/documents", func(r chi.Router) {
		r.Post("/", dh.CreateDocument)
		r.Get("/", dh.ListDocuments)
		r.Get("/{id}", dh.GetDocument)
		r.Put("/{id}", dh.RebuildDocument)
		r.Delete("/{id}", dh.DeleteDocument)
		r.Get("/{id}/form", dh.GetForm)
	})

	if cfg.Activity != nil {
		ah := handler.NewActivityHandler(cfg.Activity)
		r.Get("/v1/activity", ah.ListActivity)
		r.Get("/v1/documents/{id}/activity", ah.DocumentActivity)
	}

	th := handler.NewTemplateHandler(cfg.Templates)
	r.Get("/v1/templates", th.ListTemplates)
	r.Get("/v1/templates/{name}", th.GetTemplate)

	sh := handler.NewSessionHandler(cfg.Sessions)
	r.Post("/v1/sessions", sh.CreateSession)

	wh := wire.NewHandler(cfg.Sessions, cfg.Store, cfg.Templates, cfg.Bus)
	r.Get("/v1/sessions/ws", wh.ServeHTTP)

	return handler.Recovery(handler.Logging(r))
}

// Run starts the HTTP server and shuts it down when ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("starting server on %s", addr)

	srv := &http.Server{
		Addr:    addr,
		Handler: Router(cfg),
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/docflow/docflow/internal/activity"
	"github.com/docflow/docflow/internal/catalog"
	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/internal/event"
	"github.com/docflow/docflow/internal/eventbus"
	"github.com/docflow/docflow/internal/server"
	"github.com/docflow/docflow/internal/session"
	"github.com/docflow/docflow/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	var st store.Store
	if cfg.Store.DSN == "" {
		log.Println("no DSN configured, using in-memory store")
		st = store.NewMemoryStore()
	} else {
		db, err := sql.Open("sqlite", cfg.Store.DSN)
		if err != nil {
			log.Fatalf("opening database: %v", err)
		}
		defer db.Close()
		// modernc sqlite serializes through a single connection.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			log.Fatalf("enabling foreign keys: %v", err)
		}

		sq := store.NewSQLiteStore(db)
		if err := sq.CreateTable(ctx); err != nil {
			log.Fatalf("creating schema: %v", err)
		}
		st = sq
	}

	history := activity.NewMemoryStore()

	bus := eventbus.New(cfg.Bus.BufferSize)
	bus.Subscribe("log", eventbus.NewLogConsumer())
	bus.Subscribe("activity", activity.NewRecorder(history))
	bus.Start(ctx)
	defer bus.Stop()

	templates := catalog.NewRegistry(nil)
	if dir := cfg.Store.TemplatesDir; dir != "" {
		ts, err := catalog.Load(dir)
		if err != nil {
			log.Fatalf("loading templates: %v", err)
		}
		templates = catalog.NewRegistry(ts)
		bus.Publish(ctx, event.NewTemplatesLoaded(event.TemplatesLoadedPayload{
			Dir:   dir,
			Count: len(ts),
		}))
	}

	sessions := session.NewManager(cfg.Session.MaxAge.Std(), cfg.Session.IdleTimeout.Std())
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sessions.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := server.Run(ctx, server.Config{
		Port:      cfg.Server.Port,
		Store:     st,
		Templates: templates,
		Sessions:  sessions,
		Bus:       bus,
		Activity:  history,
	}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

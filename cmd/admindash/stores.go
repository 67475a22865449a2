package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/geocoder89/admindash/internal/config"
	"github.com/geocoder89/admindash/internal/db"
	"github.com/geocoder89/admindash/internal/http/handlers"
	"github.com/geocoder89/admindash/internal/repo"
	"github.com/geocoder89/admindash/internal/repo/memory"
	"github.com/geocoder89/admindash/internal/repo/mongo"
)

// backend is the opened document store plus what the server needs to ping
// and close it.
type backend struct {
	stores repo.Stores
	ping   handlers.Pinger
	close  func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger, obs mongo.Observer) (backend, error) {
	switch cfg.Store {
	case "memory":
		log.Warn("using in-memory store, data is lost on restart")
		return backend{
			stores: memory.NewStores(),
			close:  func(context.Context) error { return nil },
		}, nil

	case "mongo":
		m := db.NewManager(db.Config{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDatabase,
			ConnectTimeout: cfg.ConnectTimeout,
			MaxPoolSize:    cfg.MaxPoolSize,
		}, log)

		stores := mongo.NewStores(m, obs)

		// try once so indexes exist before the first request. A failure is
		// not fatal: every request dials again and answers 500 until Mongo
		// is reachable, and indexes are created on the first good connect.
		if _, err := m.Connect(ctx); err != nil {
			log.Warn("mongo unreachable at startup", "err", err)
		}

		return backend{stores: stores, ping: m.Ping, close: m.Disconnect}, nil

	default:
		return backend{}, fmt.Errorf("unknown store %q, want mongo or memory", cfg.Store)
	}
}

// Package backend opens the store backend a service is configured for.
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"libranexus/internal/library"
	"libranexus/internal/platform/config"
	"libranexus/internal/store"
	"libranexus/internal/store/memory"
	"libranexus/internal/store/redisstore"
	"libranexus/internal/store/sqlstore"
)

// Opened is a ready backend plus whatever it holds open.
type Opened struct {
	Backend store.Backend
	// DB is set for SQL backends.
	DB    *sql.DB
	Close func() error
}

// Open connects to cfg.Backend and makes sure every table exists.
func Open(ctx context.Context, cfg config.Store, logger *slog.Logger, tables ...store.Table) (*Opened, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Backend {
	case "", "memory":
		logger.Warn("using in-memory store; data is lost on restart")
		return &Opened{Backend: memory.New(), Close: func() error { return nil }}, nil

	case "sql":
		s, err := sqlstore.Open(ctx, cfg.SQLDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		for _, t := range tables {
			if err := s.EnsureTable(ctx, t); err != nil {
				s.Close()
				return nil, err
			}
		}
		logger.Info("connected to sql store", "driver", cfg.SQLDriver, "tables", len(tables))
		return &Opened{Backend: s, DB: s.DB(), Close: s.Close}, nil

	case "redis":
		client, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to redis store")
		return &Opened{Backend: redisstore.New(client), Close: client.Close}, nil
	}
	return nil, library.Runtime(fmt.Errorf("unknown store backend %q", cfg.Backend), "open store")
}

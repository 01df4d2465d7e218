package main

import (
	"context"
	"fmt"
	"strings"

	"prefset/internal/config"
	"prefset/internal/store"
	"prefset/internal/store/postgres"
	"prefset/internal/store/sqlite"
)

// openStore picks the backend from the DSN scheme.
func openStore(ctx context.Context, dsn string) (store.Store, error) {
	scheme, _, ok := strings.Cut(dsn, "://")
	if !ok {
		return nil, fmt.Errorf("database dsn must include a scheme: %q", dsn)
	}
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		client, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "sqlite":
		client, err := sqlite.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported database scheme: %q", scheme)
	}
}

func openDB(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	db, err := openStore(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		_ = db.Close(ctx)
		return nil, err
	}
	return db, nil
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/akfinance/ledger/internal/config"
	"github.com/akfinance/ledger/internal/service"
	"github.com/akfinance/ledger/internal/storage"
)

// initStorage opens the SQLite database and brings its schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// resolveUser maps the --user email flag to a user id.
func resolveUser(ctx context.Context, store service.Storage, email string) (string, error) {
	user, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to resolve user %q: %w", email, err)
	}
	return user.ID, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saucier/mise/internal/catalog"
	"github.com/saucier/mise/internal/config"
	"github.com/saucier/mise/internal/model"
	"github.com/saucier/mise/internal/service"
	"github.com/saucier/mise/internal/storage"
)

// loadCatalog loads the meal catalog, writing the embedded starter
// catalog first if none exists yet.
func loadCatalog() (*catalog.Catalog, error) {
	path := config.CatalogPath()
	created, err := catalog.EnsureFile(path)
	if err != nil {
		return nil, err
	}
	if created {
		slog.Info("Wrote starter meal catalog", "path", path)
	}
	return catalog.Load(path)
}

// openStorage opens the database and brings the schema up to date.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// loadHistory reconstructs the full persisted diary, resolving meal names
// against the catalog.
func loadHistory(ctx context.Context, store service.Storage, cat *catalog.Catalog) (model.Diary, error) {
	entries, err := store.GetDiaryEntries(ctx, service.DiaryFilter{})
	if err != nil {
		return model.Diary{}, err
	}
	return cat.ResolveDiary(entries)
}

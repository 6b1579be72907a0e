// Package testutil provides shared test helpers: an in-memory database
// with the schema applied, and seeded diary fixtures.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/saucier/mise/internal/storage"
)

// SetupTestDB creates an in-memory SQLite database with all migrations
// applied. Cleanup is registered automatically.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SeedDiary persists the given (date, meal name) entries, failing the
// test on error.
func SeedDiary(t *testing.T, store *storage.SQLiteStorage, entries map[time.Time]string) {
	t.Helper()

	if err := store.SaveDiaryEntries(context.Background(), entries); err != nil {
		t.Fatalf("failed to seed diary: %v", err)
	}
}

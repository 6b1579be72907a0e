// Package storage implements the persistence layer using SQLite: the meal
// diary and the derived shopping lists.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/saucier/mise/internal/common"
	"github.com/saucier/mise/internal/model"
	"github.com/saucier/mise/internal/service"
	"github.com/saucier/mise/internal/shopping"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const dateLayout = "2006-01-02"

// SQLiteStorage implements service.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database path", common.ErrMissingConfig)
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SaveDiaryEntries upserts confirmed diary entries in a single transaction.
func (s *SQLiteStorage) SaveDiaryEntries(ctx context.Context, entries map[time.Time]string) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO diary (date, meal, confirmed_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET meal = excluded.meal, confirmed_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare diary upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for date, meal := range entries {
		if meal == "" {
			return fmt.Errorf("empty meal name for date %s", date.Format(dateLayout))
		}
		if _, err := stmt.ExecContext(ctx, model.Day(date).Format(dateLayout), meal); err != nil {
			return fmt.Errorf("failed to save diary entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit diary entries: %w", err)
	}
	return nil
}

// GetDiaryEntries returns the persisted diary as (date, meal name) pairs,
// optionally bounded by the filter.
func (s *SQLiteStorage) GetDiaryEntries(ctx context.Context, filter service.DiaryFilter) (map[time.Time]string, error) {
	query := "SELECT date, meal FROM diary"
	var conditions []string
	var args []any
	if filter.From != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, model.Day(*filter.From).Format(dateLayout))
	}
	if filter.To != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, model.Day(*filter.To).Format(dateLayout))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query diary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make(map[time.Time]string)
	for rows.Next() {
		var rawDate, meal string
		if err := rows.Scan(&rawDate, &meal); err != nil {
			return nil, fmt.Errorf("failed to scan diary row: %w", err)
		}
		date, err := time.Parse(dateLayout, rawDate)
		if err != nil {
			return nil, fmt.Errorf("corrupt diary date %q: %w", rawDate, err)
		}
		entries[model.Day(date)] = meal
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate diary rows: %w", err)
	}
	return entries, nil
}

// RemoveDiaryEntry deletes the entry for the given date.
func (s *SQLiteStorage) RemoveDiaryEntry(ctx context.Context, date time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM diary WHERE date = ?", model.Day(date).Format(dateLayout))
	if err != nil {
		return fmt.Errorf("failed to remove diary entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check removal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("diary entry %s: %w", model.Day(date).Format(dateLayout), common.ErrNotFound)
	}
	return nil
}

// SaveShoppingList persists a shopping list for its date range, replacing
// any previous list for the same range.
func (s *SQLiteStorage) SaveShoppingList(ctx context.Context, list *shopping.List) (int64, error) {
	if list == nil {
		return 0, fmt.Errorf("list must not be nil")
	}

	lines, err := json.Marshal(list.Lines)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal shopping list lines: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO shopping_lists (from_date, to_date, lines, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(from_date, to_date) DO UPDATE SET lines = excluded.lines, created_at = CURRENT_TIMESTAMP
	`, model.Day(list.From).Format(dateLayout), model.Day(list.To).Format(dateLayout), string(lines))
	if err != nil {
		return 0, fmt.Errorf("failed to save shopping list: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get shopping list id: %w", err)
	}
	return id, nil
}

// GetShoppingList returns the persisted shopping list for the date range.
func (s *SQLiteStorage) GetShoppingList(ctx context.Context, from, to time.Time) (*shopping.List, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT lines FROM shopping_lists WHERE from_date = ? AND to_date = ?",
		model.Day(from).Format(dateLayout), model.Day(to).Format(dateLayout)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shopping list %s to %s: %w",
			model.Day(from).Format(dateLayout), model.Day(to).Format(dateLayout), common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping list: %w", err)
	}

	var lines []shopping.Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list lines: %w", err)
	}
	return &shopping.List{From: model.Day(from), To: model.Day(to), Lines: lines}, nil
}

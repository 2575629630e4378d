// Package sqlite provides a SQLite-backed archive storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	sqlitemigrate "github.com/louisbranch/grimoire.space/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/grimoire.space/internal/services/archive/storage"
	"github.com/louisbranch/grimoire.space/internal/services/archive/storage/sqlite/migrations"
)

// Store persists archive state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite archive store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ready returns the handle or an error when the store is not configured.
func (s *Store) ready(ctx context.Context) (*sql.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	return s.sqlDB, nil
}

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// recordExists reports whether the given table holds a row with this id.
func recordExists(ctx context.Context, q querier, table, id string) (bool, error) {
	var found int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// requireRelated resolves one referenced record, mapping a missing row to a
// RelatedResourceError naming the dangling reference.
func requireRelated(ctx context.Context, q querier, resource, table, id string) error {
	ok, err := recordExists(ctx, q, table, id)
	if err != nil {
		return fmt.Errorf("resolve %s %s: %w", resource, id, err)
	}
	if !ok {
		return &storage.RelatedResourceError{Resource: resource, ID: id}
	}
	return nil
}

// resolveWriteConflict classifies a zero-row conditional update: a missing
// row is ErrNotFound, a present row with another version is ErrStaleData.
func resolveWriteConflict(ctx context.Context, q querier, table, id string) error {
	ok, err := recordExists(ctx, q, table, id)
	if err != nil {
		return fmt.Errorf("resolve write conflict: %w", err)
	}
	if !ok {
		return storage.ErrNotFound
	}
	return storage.ErrStaleData
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func stringOrEmpty(value sql.NullString) string {
	if value.Valid {
		return value.String
	}
	return ""
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)

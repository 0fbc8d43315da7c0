package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"charterline/pkg/platform/sentinel"
)

// SQLiteBackend stores values in the kv_entries table created by the
// sqlite migrations in internal/platform/sqlite.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend wraps an open, migrated database.
func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

func (b *SQLiteBackend) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return value, nil
}

const upsertEntry = `
	INSERT INTO kv_entries (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT (key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
`

func (b *SQLiteBackend) Save(ctx context.Context, key string, value []byte) error {
	if _, err := b.db.ExecContext(ctx, upsertEntry, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("save %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return nil
}

// Update runs the read-modify-write in one transaction. Transactions begin
// IMMEDIATE, so a second writer waits for the first to commit.
func (b *SQLiteBackend) Update(ctx context.Context, key string, fn func([]byte) ([]byte, error)) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	var current []byte
	err = tx.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, upsertEntry, key, next, time.Now().UTC()); err != nil {
		return fmt.Errorf("update %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update %s: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return nil
}

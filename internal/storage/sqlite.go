package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLiteStorage keeps the documents of one named storage in the
// storage_entries table. Several storages share the table, separated by
// storage_name.
type SQLiteStorage struct {
	db   *sql.DB
	name string
}

// NewSQLiteStorage returns the storage called name in db. The
// storage_entries table must exist (see the migrations package).
func NewSQLiteStorage(db *sql.DB, name string) *SQLiteStorage {
	return &SQLiteStorage{db: db, name: name}
}

// Name returns the storage name.
func (s *SQLiteStorage) Name() string {
	return s.name
}

// Get implements Storage.
func (s *SQLiteStorage) Get(ctx context.Context, key string) (json.RawMessage, error) {
	return get(ctx, s.db, s.name, key)
}

// Create implements Storage.
func (s *SQLiteStorage) Create(ctx context.Context, key string, value json.RawMessage) error {
	if key == "" {
		return ErrInvalidKey
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := get(ctx, tx, s.name, key); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, key)
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		return upsert(ctx, tx, s.name, key, value)
	})
}

// Update implements Storage.
func (s *SQLiteStorage) Update(ctx context.Context, key string, value json.RawMessage) (json.RawMessage, error) {
	var prev json.RawMessage
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if prev, err = get(ctx, tx, s.name, key); err != nil {
			return err
		}
		return upsert(ctx, tx, s.name, key, value)
	})
	if err != nil {
		return nil, err
	}
	return prev, nil
}

// Put implements Storage.
func (s *SQLiteStorage) Put(ctx context.Context, key string, value json.RawMessage) (json.RawMessage, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	var prev json.RawMessage
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		prev, err = get(ctx, tx, s.name, key)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		return upsert(ctx, tx, s.name, key, value)
	})
	if err != nil {
		return nil, err
	}
	return prev, nil
}

// Remove implements Storage.
func (s *SQLiteStorage) Remove(ctx context.Context, key string) (json.RawMessage, error) {
	var prev json.RawMessage
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if prev, err = get(ctx, tx, s.name, key); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"DELETE FROM storage_entries WHERE storage_name = ? AND key = ?",
			s.name, key,
		)
		if err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prev, nil
}

// Keys implements Storage.
func (s *SQLiteStorage) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM storage_entries WHERE storage_name = ? ORDER BY key",
		s.name,
	)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating keys: %w", err)
	}
	return keys, nil
}

// Entries implements Storage. The snapshot is read in one query.
func (s *SQLiteStorage) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, value FROM storage_entries WHERE storage_name = ? ORDER BY key",
		s.name,
	)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			key   string
			value string
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		out = append(out, Entry{Key: key, Value: json.RawMessage(value)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return out, nil
}

func (s *SQLiteStorage) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, q queryer, name, key string) (json.RawMessage, error) {
	var value string
	err := q.QueryRowContext(ctx,
		"SELECT value FROM storage_entries WHERE storage_name = ? AND key = ?",
		name, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", key, err)
	}
	return json.RawMessage(value), nil
}

func upsert(ctx context.Context, tx *sql.Tx, name, key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return fmt.Errorf("storing %s: value is not valid JSON", key)
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO storage_entries (storage_name, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (storage_name, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, name, key, string(value), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("storing %s: %w", key, err)
	}
	return nil
}

// Package sqlite provides a SQLite-backed implementation of the
// contextstore.Store interface, for hosts whose context values must survive
// restarts. The driver is cgo-free, so the backend works anywhere the
// binary does.
//
// Values round-trip through JSON. Numeric values therefore come back as
// float64, the usual encoding/json behavior.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store persists context scopes in a single SQLite file.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the store at path, creating the file and schema as needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("context db path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open context db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping context db: %w", err)
	}
	if _, err := sqlDB.Exec(schemaSQL); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply context schema: %w", err)
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

// Get returns the value stored under scope/key.
func (s *Store) Get(ctx context.Context, scope, key string) (any, bool, error) {
	var raw string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT value FROM context_entries WHERE scope = ? AND key = ?`,
		scope, key,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get context %s/%s: %w", scope, key, err)
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, false, fmt.Errorf("decode context %s/%s: %w", scope, key, err)
	}
	return value, true, nil
}

// Set stores value under scope/key, replacing any previous value.
func (s *Store) Set(ctx context.Context, scope, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode context %s/%s: %w", scope, key, err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO context_entries (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		scope, key, string(raw), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("set context %s/%s: %w", scope, key, err)
	}
	return nil
}

// Delete removes scope/key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, scope, key string) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM context_entries WHERE scope = ? AND key = ?`,
		scope, key,
	)
	if err != nil {
		return fmt.Errorf("delete context %s/%s: %w", scope, key, err)
	}
	return nil
}

// Keys returns the sorted keys of one scope.
func (s *Store) Keys(ctx context.Context, scope string) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT key FROM context_entries WHERE scope = ? ORDER BY key`,
		scope,
	)
	if err != nil {
		return nil, fmt.Errorf("list context keys %s: %w", scope, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan context key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate context keys %s: %w", scope, err)
	}
	return keys, nil
}

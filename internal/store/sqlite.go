package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps the snapshot in a single-row table keyed by the storage
// key. Heavier than FileStore but survives concurrent daemon instances.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

func NewSQLiteStore(path, key string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	query := `CREATE TABLE IF NOT EXISTS snapshots (
        key TEXT PRIMARY KEY,
        payload BLOB NOT NULL,
        updated_at DATETIME NOT NULL
    )`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}

	return &SQLiteStore{db: db, key: key}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]byte, error) {
	var payload []byte
	query := `SELECT payload FROM snapshots WHERE key = ?`
	err := s.db.QueryRowContext(ctx, query, s.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("load", err)
	}
	return payload, nil
}

func (s *SQLiteStore) Save(ctx context.Context, data []byte) error {
	query := `INSERT INTO snapshots (key, payload, updated_at) VALUES (?, ?, ?)
              ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, s.key, data, time.Now()); err != nil {
		return storageErr("save", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

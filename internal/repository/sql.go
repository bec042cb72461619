package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/passkeep/passkeep-go/internal/model"
)

// SQLStore is the durable tier backed by a key-value table.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a new SQLStore.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// REPLACE INTO is understood by both SQLite and MySQL.
const (
	getQuery = `SELECT v FROM kv_store WHERE k = ?`
	putQuery = `REPLACE INTO kv_store (k, v) VALUES (?, ?)`
)

func (s *SQLStore) Name() string { return "durable" }

// Read loads the service list. Query failures are logged and read as empty.
func (s *SQLStore) Read(ctx context.Context) []model.StoredService {
	var raw string
	err := s.db.QueryRowContext(ctx, getQuery, StorageKey).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("durable store read failed", "error", err)
		}
		return nil
	}
	return decodeServices(s.Name(), raw)
}

// Write stores the full service list under StorageKey.
func (s *SQLStore) Write(ctx context.Context, services []model.StoredService) error {
	raw, err := encodeServices(services)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, putQuery, StorageKey, raw); err != nil {
		return fmt.Errorf("writing durable store: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Supported durable store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// NewDB creates a database connection pool for the given driver and DSN.
func NewDB(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite, DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// SQLite serializes writers; a single connection also keeps :memory: databases shared.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		slog.Warn("database ping failed", "driver", driver, "error", err)
	}

	return db, nil
}

const schemaQuery = `CREATE TABLE IF NOT EXISTS kv_store (
	k VARCHAR(64) NOT NULL PRIMARY KEY,
	v MEDIUMTEXT NOT NULL
)`

// EnsureSchema creates the key-value table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaQuery); err != nil {
		return fmt.Errorf("creating kv_store: %w", err)
	}
	return nil
}

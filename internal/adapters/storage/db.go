package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// migration is one schema step. Migrations run in order inside a transaction
// and are recorded in schema_version.
type migration struct {
	version int
	name    string
	apply   func(tx *sql.Tx) error
}

var migrations = []migration{
	{1, "baseline", migrateBaseline},
}

// LatestSchemaVersion returns the version the schema reaches after all
// migrations apply.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the currently applied schema version, 0 for an empty
// database.
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check schema_version table: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// MigrateDB brings the database schema up to the latest version.
// PRE: db is a valid database connection
// POST: Schema is at LatestSchemaVersion(), already-applied steps are skipped
func MigrateDB(db *sql.DB, dbPath string) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version, name) VALUES (?, ?)", m.version, m.name); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
		slog.Info("migration_applied", "version", m.version, "name", m.name, "db", dbPath)
	}

	return nil
}

// migrateBaseline creates the initial tables.
func migrateBaseline(tx *sql.Tx) error {
	schema := `
	CREATE TABLE IF NOT EXISTS user (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		class TEXT NOT NULL,
		role TEXT NOT NULL,
		registered_at TEXT NOT NULL,
		notifications_enabled INTEGER NOT NULL DEFAULT 1,
		custom_keyboard TEXT NOT NULL DEFAULT '[]',
		homework_views INTEGER NOT NULL DEFAULT 0,
		last_active TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_user_class ON user(class);

	CREATE TABLE IF NOT EXISTS homework (
		class_key TEXT PRIMARY KEY,
		data TEXT NOT NULL DEFAULT '{}',
		schedule_photo_id TEXT,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS admin_request (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		class TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL,
		decided_at TEXT,
		decided_by TEXT
	);
	`
	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("create baseline schema: %w", err)
	}
	return nil
}

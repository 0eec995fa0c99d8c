package kvstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DBFile is the database filename created inside the data directory.
const DBFile = "mythos.db"

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteBackend persists items in a single SQLite table. Every call is a
// synchronous statement; there is no write-behind buffering.
type SQLiteBackend struct {
	db    *sql.DB
	path  string
	hooks sqliteHooks
}

type sqliteHooks struct {
	exec     func(db *sql.DB, query string, args ...any) (sql.Result, error)
	queryRow func(db *sql.DB, query string, args ...any) *sql.Row
}

func (b *SQLiteBackend) execHook(query string, args ...any) (sql.Result, error) {
	if b.hooks.exec != nil {
		return b.hooks.exec(b.db, query, args...)
	}
	return b.db.Exec(query, args...)
}

func (b *SQLiteBackend) queryRowHook(query string, args ...any) *sql.Row {
	if b.hooks.queryRow != nil {
		return b.hooks.queryRow(b.db, query, args...)
	}
	return b.db.QueryRow(query, args...)
}

// OpenSQLite opens (or creates) <dataDir>/mythos.db and prepares the schema.
func OpenSQLite(dataDir string) (*SQLiteBackend, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("kvstore: empty data dir")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("kvstore: create data dir: %w", err)
	}

	path := filepath.Join(dataDir, DBFile)
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("kvstore: pragma %q: %w", p, err)
		}
	}

	b := &SQLiteBackend{db: db, path: path}
	if err := b.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kvstore: migration: %w", err)
	}
	return b, nil
}

func (b *SQLiteBackend) migrate() error {
	_, err := b.execHook(`
		CREATE TABLE IF NOT EXISTS items (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`)
	return err
}

// Path returns the database file location.
func (b *SQLiteBackend) Path() string {
	return b.path
}

// Close closes the underlying database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) GetItem(key string) (string, bool, error) {
	var value string
	err := b.queryRowHook(`SELECT value FROM items WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item %q: %w", key, err)
	}
	return value, true, nil
}

func (b *SQLiteBackend) SetItem(key, value string) error {
	_, err := b.execHook(
		`INSERT INTO items (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("set item %q: %w", key, err)
	}
	return nil
}

func (b *SQLiteBackend) RemoveItem(key string) error {
	if _, err := b.execHook(`DELETE FROM items WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove item %q: %w", key, err)
	}
	return nil
}

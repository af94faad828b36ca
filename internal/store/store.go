package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on entries.author
const currentSchemaVersion = 1

// MetaSpaceID is the meta key holding the database's space id.
const MetaSpaceID = "space_id"

// Store provides durable storage for entries and their history.
// Uses SQLite with WAL mode: writes go through a single connection, reads
// use a separate read-only pool and never wait on a writer.
type Store struct {
	db  *sql.DB // single writer
	rdb *sql.DB // read-only pool; same as db for in-memory databases
}

// OpenExisting opens a database that must already exist.
// Returns an error wrapping fs.ErrNotExist when path is absent.
func OpenExisting(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("database %s: %w", path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("database %s: %w", path, err)
	}
	return Open(path)
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations, and assigns the database a
// space id on first open.
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &Store{db: db, rdb: db}
	if _, err := s.WriteMetaIfAbsent(context.Background(), MetaSpaceID, uuid.Must(uuid.NewV7()).String()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to assign space id: %w", err)
	}

	if !isMemoryPath(path) {
		rdb, err := openReader(path)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to open read pool: %w", err)
		}
		s.rdb = rdb
	}

	return s, nil
}

// openReader opens a read-only pool on an existing WAL database.
func openReader(path string) (*sql.DB, error) {
	escaped := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23").Replace(path)
	rdb, err := sql.Open("sqlite3", "file:"+escaped+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if err := rdb.Ping(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func isMemoryPath(path string) bool {
	return path == "" || path == ":memory:" || strings.Contains(path, "mode=memory")
}

// Close closes the read pool and the writer connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	var rerr error
	if s.rdb != nil && s.rdb != s.db {
		rerr = s.rdb.Close()
	}
	return errors.Join(rerr, s.db.Close())
}

// SpaceID returns the UUIDv7 assigned to this database when it was created.
func (s *Store) SpaceID(ctx context.Context) (string, error) {
	id, ok, err := s.ReadMeta(ctx, MetaSpaceID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("space id: %w", sql.ErrNoRows)
	}
	return id, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 indexes entries by author.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_entries_author ON entries(author, seq)`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

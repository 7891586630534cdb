package store

import (
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "modernc.org/sqlite"
)

const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"

	// MemoryPath opens a throwaway in-memory database (useful for testing).
	MemoryPath = ":memory:"
)

// NewDB opens the database at the given path with the given driver.
// Use ":memory:" for an in-memory database.
func NewDB(driver, path string) (*sql.DB, error) {
	switch driver {
	case DriverDuckDB:
		return newDuckDB(path)
	case DriverSQLite:
		return newSQLiteDB(path)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

func newDuckDB(path string) (*sql.DB, error) {
	conn, err := sql.Open(DriverDuckDB, path)
	if err != nil {
		return nil, err
	}

	// DuckDB is single-writer; a single connection prevents idle pool
	// connections from blocking WAL checkpointing.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	// Keep extensions next to the password file instead of ~/.duckdb
	if path != MemoryPath {
		extDir := filepath.Dir(path)
		if _, err := conn.Exec(fmt.Sprintf("SET extension_directory = '%s'", strings.ReplaceAll(extDir, "'", "''"))); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("setting extension directory: %w", err)
		}
	}

	return conn, nil
}

func newSQLiteDB(path string) (*sql.DB, error) {
	dsn := path
	if path != MemoryPath {
		// The path is escaped so "?" and "#" in folder names stay part of the file name.
		// synchronous(FULL) so an acknowledged write survives a power loss.
		dsn = (&url.URL{
			Scheme:   "file",
			OmitHost: true,
			Path:     path,
			RawQuery: "_pragma=busy_timeout(5000)&_pragma=synchronous(FULL)&_pragma=journal_mode(DELETE)",
		}).String()
	}

	conn, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, err
	}

	// One connection: an in-memory database is private to its connection,
	// and the store never needs parallel readers.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}

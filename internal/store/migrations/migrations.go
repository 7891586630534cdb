package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

const versionTable = "schema_migrations"

type migration struct {
	version int
	name    string
	body    string
}

// Run applies every embedded migration newer than the recorded schema version.
// It is safe to call on every open; applied migrations are skipped.
func Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS "+versionTable+" (version INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("creating %s: %w", versionTable, err)
	}

	current, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}

	all, err := load()
	if err != nil {
		return err
	}

	for _, m := range all {
		if m.version <= current {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			return err
		}
		zap.S().Named("migrations").Debugw("migration applied", "version", m.version, "name", m.name)
	}

	return nil
}

func currentVersion(ctx context.Context, db *sql.DB) (int, error) {
	query, args, err := sq.Select("COALESCE(MAX(version), 0)").From(versionTable).ToSql()
	if err != nil {
		return 0, err
	}

	var version int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func apply(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration %s: %w", m.name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.body); err != nil {
		return fmt.Errorf("migration %s: %w", m.name, err)
	}

	query, args, err := sq.Insert(versionTable).Columns("version").Values(m.version).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("recording migration %s: %w", m.name, err)
	}

	return tx.Commit()
}

// load returns the embedded migrations ordered by version.
// File names must look like 0001_description.sql.
func load() ([]migration, error) {
	entries, err := fs.ReadDir(migrationsFS, "sql")
	if err != nil {
		return nil, err
	}

	result := make([]migration, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("malformed migration name %q", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("malformed migration version %q: %w", name, err)
		}
		body, err := migrationsFS.ReadFile(path.Join("sql", name))
		if err != nil {
			return nil, err
		}
		result = append(result, migration{version: version, name: name, body: string(body)})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].version < result[j].version })
	return result, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/password-saver/internal/models"
	srvErrors "github.com/kubev2v/password-saver/pkg/errors"
)

// Column name constants for the credentials table
const (
	entriesTable       = "credentials"
	entriesColSite     = "site"
	entriesColUsername = "username"
	entriesColSecret   = "secret"
)

// EntryMatcher narrows List results. pkg/filter expressions implement it.
type EntryMatcher interface {
	Match(e models.Entry) bool
}

type EntryStore struct {
	db QueryInterceptor
}

func NewEntryStore(db QueryInterceptor) *EntryStore {
	return &EntryStore{db: db}
}

// Put inserts the entry or replaces every field of the existing one.
func (s *EntryStore) Put(ctx context.Context, entry models.Entry) error {
	if err := entry.Validate(); err != nil {
		return srvErrors.NewInvalidArgumentError("site", "must not be empty")
	}

	query, args, err := sq.Insert(entriesTable).
		Columns(entriesColSite, entriesColUsername, entriesColSecret).
		Values(entry.Site, entry.Username, entry.Secret).
		Suffix("ON CONFLICT (site) DO UPDATE SET username = EXCLUDED.username, secret = EXCLUDED.secret").
		ToSql()
	if err != nil {
		return fmt.Errorf("building put query for %s: %w", entry.Site, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("saving entry %s: %w", entry.Site, err)
	}
	return nil
}

// Get returns the entry for site, or ResourceNotFoundError.
func (s *EntryStore) Get(ctx context.Context, site string) (*models.Entry, error) {
	query, args, err := sq.Select(entriesColSite, entriesColUsername, entriesColSecret).
		From(entriesTable).
		Where(sq.Eq{entriesColSite: site}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query for %s: %w", site, err)
	}

	var e models.Entry
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&e.Site, &e.Username, &e.Secret)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewEntryNotFoundError(site)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning entry %s: %w", site, err)
	}
	return &e, nil
}

// Delete removes the entry for site, or returns ResourceNotFoundError
// without touching the store.
func (s *EntryStore) Delete(ctx context.Context, site string) error {
	query, args, err := sq.Delete(entriesTable).
		Where(sq.Eq{entriesColSite: site}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete query for %s: %w", site, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", site, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", site, err)
	}
	if n == 0 {
		return srvErrors.NewEntryNotFoundError(site)
	}
	return nil
}

// All lazily yields every entry ordered by site. The sequence holds the
// connection until it ends, so the store must not be written during iteration.
func (s *EntryStore) All(ctx context.Context) iter.Seq2[models.Entry, error] {
	return func(yield func(models.Entry, error) bool) {
		query, args, err := sq.Select(entriesColSite, entriesColUsername, entriesColSecret).
			From(entriesTable).
			OrderBy(entriesColSite + " ASC").
			ToSql()
		if err != nil {
			yield(models.Entry{}, fmt.Errorf("building list query: %w", err))
			return
		}

		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(models.Entry{}, fmt.Errorf("executing list query: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var e models.Entry
			if err := rows.Scan(&e.Site, &e.Username, &e.Secret); err != nil {
				yield(models.Entry{}, fmt.Errorf("scanning entry: %w", err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(models.Entry{}, fmt.Errorf("iterating entries: %w", err))
		}
	}
}

// List collects All, keeping only entries accepted by matcher.
// A nil matcher keeps everything.
func (s *EntryStore) List(ctx context.Context, matcher EntryMatcher) ([]models.Entry, error) {
	result := make([]models.Entry, 0)
	for e, err := range s.All(ctx) {
		if err != nil {
			return nil, err
		}
		if matcher != nil && !matcher.Match(e) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (s *EntryStore) Count(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From(entriesTable).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return count, nil
}

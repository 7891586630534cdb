package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/kubev2v/password-saver/internal/config"
	"github.com/kubev2v/password-saver/internal/models"
	"github.com/kubev2v/password-saver/internal/store"
	srvErrors "github.com/kubev2v/password-saver/pkg/errors"
	"github.com/kubev2v/password-saver/pkg/export"
	"github.com/kubev2v/password-saver/pkg/filter"
)

// CredentialService opens the store for every operation and closes it
// before returning, so the backing file is never held between calls.
// Listings are fully read before any write, since the store's single
// connection stays busy while entries are being iterated.
type CredentialService struct {
	path   string
	driver string
}

func NewCredentialService(cfg config.Store) *CredentialService {
	return &CredentialService{
		path:   cfg.Path(),
		driver: cfg.Driver,
	}
}

// Add saves entry with its site trimmed. A blank site is an InvalidArgumentError.
func (c *CredentialService) Add(ctx context.Context, entry models.Entry) error {
	entry.Site = strings.TrimSpace(entry.Site)
	if entry.Site == "" {
		return srvErrors.NewInvalidArgumentError("site", "must not be empty")
	}
	return c.withEntries(ctx, func(entries *store.EntryStore) error {
		if err := entries.Put(ctx, entry); err != nil {
			return err
		}
		zap.S().Named("credential_service").Debugw("entry saved", "site", entry.Site)
		return nil
	})
}

func (c *CredentialService) Get(ctx context.Context, site string) (*models.Entry, error) {
	var entry *models.Entry
	err := c.withEntries(ctx, func(entries *store.EntryStore) error {
		e, err := entries.Get(ctx, site)
		entry = e
		return err
	})
	return entry, err
}

// List returns every entry ordered by site. A non-empty expr narrows the
// result with a filter expression.
func (c *CredentialService) List(ctx context.Context, expr string) ([]models.Entry, error) {
	var matcher store.EntryMatcher
	if expr != "" {
		e, err := filter.Parse([]byte(expr))
		if err != nil {
			return nil, fmt.Errorf("invalid filter: %w", err)
		}
		matcher = e
	}

	var result []models.Entry
	err := c.withEntries(ctx, func(entries *store.EntryStore) error {
		list, err := entries.List(ctx, matcher)
		result = list
		return err
	})
	return result, err
}

func (c *CredentialService) Remove(ctx context.Context, site string) error {
	return c.withEntries(ctx, func(entries *store.EntryStore) error {
		if err := entries.Delete(ctx, site); err != nil {
			return err
		}
		zap.S().Named("credential_service").Debugw("entry removed", "site", site)
		return nil
	})
}

func (c *CredentialService) Export(ctx context.Context, w io.Writer, format export.Format) error {
	list, err := c.List(ctx, "")
	if err != nil {
		return err
	}
	return export.Write(w, format, list)
}

// ExportFile writes the store to path, replacing it atomically.
func (c *CredentialService) ExportFile(ctx context.Context, path string, format export.Format) error {
	list, err := c.List(ctx, "")
	if err != nil {
		return err
	}
	if err := export.WriteFile(path, format, list); err != nil {
		return err
	}
	zap.S().Named("credential_service").Infow("store exported", "path", path, "format", format, "count", len(list))
	return nil
}

// Import upserts every record of a JSON export and returns how many were written.
// The input is fully decoded before the store is opened.
func (c *CredentialService) Import(ctx context.Context, r io.Reader) (int, error) {
	records, err := export.ReadJSON(r)
	if err != nil {
		return 0, err
	}

	written := 0
	err = c.withEntries(ctx, func(entries *store.EntryStore) error {
		for _, e := range records {
			if err := entries.Put(ctx, e); err != nil {
				return fmt.Errorf("failed to import %q: %w", e.Site, err)
			}
			written++
		}
		return nil
	})

	zap.S().Named("credential_service").Infow("entries imported", "count", written)
	return written, err
}

func (c *CredentialService) withEntries(ctx context.Context, fn func(*store.EntryStore) error) (err error) {
	st, err := store.Open(ctx, c.path, store.WithDriver(c.driver))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close store: %w", cerr)
		}
	}()

	return fn(st.Entries())
}

package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/graphseek/core"
	"github.com/poiesic/graphseek/storage"
)

// PageRepository implements storage.PageRepository for BadgerDB.
type PageRepository struct {
	backend *Backend
}

var _ storage.PageRepository = (*PageRepository)(nil)

// NewPageRepository creates a new PageRepository.
func NewPageRepository(backend *Backend) (*PageRepository, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &PageRepository{backend: backend}, nil
}

// Close releases repository resources.
func (r *PageRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *PageRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutPages upserts one or more pages, keeping the title index consistent.
func (r *PageRepository) PutPages(ctx context.Context, pages ...*core.Page) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, page := range pages {
			if err := core.ValidatePage(page); err != nil {
				return err
			}

			key := makePageKey(page.UID)

			old, err := r.readPage(tx, key)
			if err != nil {
				return err
			}
			if old != nil && old.Title != page.Title {
				if err := tx.Delete(makePageTitleKey(old.Title)); err != nil {
					return err
				}
			}

			if err := tx.Set(key, storage.MarshalPage(page)); err != nil {
				return err
			}
			if err := tx.Set(makePageTitleKey(page.Title), storage.MarshalUID(page.UID)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetPage retrieves a single page by UID.
func (r *PageRepository) GetPage(ctx context.Context, uid core.UID) (*core.Page, error) {
	var result *core.Page
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readPage(tx, makePageKey(uid))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetPageByTitle retrieves a page by exact title, case-insensitive.
func (r *PageRepository) GetPageByTitle(ctx context.Context, title string) (*core.Page, error) {
	var result *core.Page
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makePageTitleKey(title))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		var uid core.UID
		if err := item.Value(func(val []byte) error {
			var err error
			uid, err = storage.UnmarshalUID(val)
			return err
		}); err != nil {
			return err
		}

		result, err = r.readPage(tx, makePageKey(uid))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// DeletePages removes pages and their title index entries by UID.
func (r *PageRepository) DeletePages(ctx context.Context, uids ...core.UID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, uid := range uids {
			key := makePageKey(uid)
			page, err := r.readPage(tx, key)
			if err != nil {
				return err
			}
			if page == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makePageTitleKey(page.Title)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// ForEachPage iterates every stored page record.
func (r *PageRepository) ForEachPage(ctx context.Context, fn func(*core.Page) error) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pageRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		count := 0
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
			if count%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			var page *core.Page
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				page, err = storage.UnmarshalPage(val)
				return err
			}); err != nil {
				return err
			}
			if page == nil {
				continue
			}
			if err := fn(page); err != nil {
				return err
			}
		}
		return nil
	}, false)

	if err == storage.ErrStopIteration {
		return nil
	}
	return err
}

// readPage reads and unmarshals a page, returning nil when absent.
func (r *PageRepository) readPage(tx *badger.Txn, key []byte) (*core.Page, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var page *core.Page
	err = item.Value(func(val []byte) error {
		var err error
		page, err = storage.UnmarshalPage(val)
		return err
	})
	return page, err
}

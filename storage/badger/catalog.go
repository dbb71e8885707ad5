package badger

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/tablemap/tablemap/core"
	"github.com/tablemap/tablemap/storage"
)

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend *Backend
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(backend *Backend) *CatalogRepository {
	return &CatalogRepository{backend: backend}
}

// Close releases repository resources.
func (r *CatalogRepository) Close() error {
	return nil
}

// AddItems adds one or more catalog items to storage.
func (r *CatalogRepository) AddItems(ctx context.Context, items ...*core.CatalogItem) ([]*core.CatalogItem, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			if err := core.ValidateCatalogItem(item); err != nil {
				return err
			}

			if item.Id == 0 {
				item.Id = core.IDFromObject(item.ObjectType, item.ParentTableName, item.ObjectName)
			}

			item.InsertedAt = time.Now().UTC()
			item.UpdatedAt = item.InsertedAt

			if err := r.writeItem(tx, item, nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return items, err
}

// UpdateItems updates existing catalog items.
func (r *CatalogRepository) UpdateItems(ctx context.Context, items ...*core.CatalogItem) ([]*core.CatalogItem, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			if err := core.ValidateCatalogItem(item); err != nil {
				return err
			}

			old, err := r.readItem(tx, makeItemKey(item.Id))
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// The insertion timestamp belongs to the stored record, not
			// the caller's copy.
			item.InsertedAt = old.InsertedAt
			item.UpdatedAt = time.Now().UTC()

			if err := r.writeItem(tx, item, old); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return items, err
}

// DeleteItems removes catalog items by their ids.
func (r *CatalogRepository) DeleteItems(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			old, err := r.readItem(tx, makeItemKey(id))
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeItemKey(id)); err != nil {
				return err
			}
			if old.ModelVersion != "" {
				if err := tx.Delete(makeModelVersionKey(old.ModelVersion, id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// GetItem retrieves a single catalog item by id.
func (r *CatalogRepository) GetItem(ctx context.Context, id core.ID) (*core.CatalogItem, error) {
	var item *core.CatalogItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		item, err = r.readItem(tx, makeItemKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, storage.ErrNotFound
	}
	return item, nil
}

// GetItems retrieves multiple catalog items by their ids.
// Missing items are silently skipped.
func (r *CatalogRepository) GetItems(ctx context.Context, ids ...core.ID) ([]*core.CatalogItem, error) {
	items := make([]*core.CatalogItem, 0, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := r.readItem(tx, makeItemKey(id))
			if err != nil {
				return err
			}
			if item != nil {
				items = append(items, item)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListItems returns all catalog items.
func (r *CatalogRepository) ListItems(ctx context.Context) ([]*core.CatalogItem, error) {
	var items []*core.CatalogItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itemPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			// Skip model-version index keys sharing the prefix
			if bytes.HasPrefix(item.Key(), []byte(itemModelVerPrefix)) {
				continue
			}

			var record *core.CatalogItem
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalItem(val)
				return err
			})
			if err != nil {
				return err
			}
			items = append(items, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListByModelVersion returns all items carrying an embedding computed with
// the given model version, resolved through the model-version index.
func (r *CatalogRepository) ListByModelVersion(ctx context.Context, modelVersion string) ([]*core.CatalogItem, error) {
	var items []*core.CatalogItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialModelVersionKey(modelVersion)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			item, err := r.readItem(tx, makeItemKey(id))
			if err != nil {
				return err
			}
			if item != nil && item.HasEmbedding() {
				items = append(items, item)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListMissingEmbeddings returns items with a non-blank description whose
// embedding is absent or stale relative to modelVersion.
func (r *CatalogRepository) ListMissingEmbeddings(ctx context.Context, modelVersion string) ([]*core.CatalogItem, error) {
	all, err := r.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	var missing []*core.CatalogItem
	for _, item := range all {
		if strings.TrimSpace(item.Description) == "" {
			continue
		}
		if item.HasEmbedding() && item.ModelVersion == modelVersion {
			continue
		}
		missing = append(missing, item)
	}
	return missing, nil
}

// SetEmbedding stores an embedding blob and its model version for an item.
func (r *CatalogRepository) SetEmbedding(ctx context.Context, id core.ID, embedding []byte, modelVersion string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		old, err := r.readItem(tx, makeItemKey(id))
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		updated := *old
		updated.EmbeddingBytes = embedding
		updated.ModelVersion = modelVersion
		updated.UpdatedAt = time.Now().UTC()

		if err := r.writeItem(tx, &updated, old); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// writeItem stores an item and maintains the model-version index.
// old is the previous stored state, nil for inserts.
func (r *CatalogRepository) writeItem(tx *badger.Txn, item, old *core.CatalogItem) error {
	value, err := storage.MarshalItem(item)
	if err != nil {
		return err
	}
	if err := tx.Set(makeItemKey(item.Id), value); err != nil {
		return err
	}

	if old != nil && old.ModelVersion != "" && old.ModelVersion != item.ModelVersion {
		if err := tx.Delete(makeModelVersionKey(old.ModelVersion, item.Id)); err != nil {
			return err
		}
	}
	if item.ModelVersion != "" {
		if err := tx.Set(makeModelVersionKey(item.ModelVersion, item.Id), storage.MarshalID(item.Id)); err != nil {
			return err
		}
	}
	return nil
}

// readItem reads an item by key. Returns nil (no error) if the key is absent.
func (r *CatalogRepository) readItem(tx *badger.Txn, key []byte) (*core.CatalogItem, error) {
	entry, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var item *core.CatalogItem
	err = entry.Value(func(val []byte) error {
		var err error
		item, err = storage.UnmarshalItem(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

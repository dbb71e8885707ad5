package storage

import (
	"context"

	"github.com/tablemap/tablemap/core"
)

// CatalogRepository provides read/write access to enriched catalog items.
// Implementations must be thread-safe and support concurrent access.
type CatalogRepository interface {
	// AddItems adds one or more catalog items to storage.
	// For items with Id==0, derives a content-based id from the object's
	// qualified name. Sets InsertedAt/UpdatedAt timestamps.
	// Returns the items with ids and timestamps populated.
	AddItems(ctx context.Context, items ...*core.CatalogItem) ([]*core.CatalogItem, error)

	// UpdateItems updates existing catalog items.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any item doesn't exist.
	UpdateItems(ctx context.Context, items ...*core.CatalogItem) ([]*core.CatalogItem, error)

	// DeleteItems removes catalog items by their ids.
	// Returns ErrNotFound if any item doesn't exist.
	DeleteItems(ctx context.Context, ids ...core.ID) error

	// GetItem retrieves a single catalog item by id.
	// Returns ErrNotFound if the item doesn't exist.
	GetItem(ctx context.Context, id core.ID) (*core.CatalogItem, error)

	// GetItems retrieves multiple catalog items by their ids.
	// Returns only the items that exist (no error for missing items).
	GetItems(ctx context.Context, ids ...core.ID) ([]*core.CatalogItem, error)

	// ListItems returns all catalog items in unspecified order.
	ListItems(ctx context.Context) ([]*core.CatalogItem, error)

	// ListByModelVersion returns all items that carry an embedding computed
	// with the given model version. These are the rows eligible for indexing.
	ListByModelVersion(ctx context.Context, modelVersion string) ([]*core.CatalogItem, error)

	// ListMissingEmbeddings returns items with a non-blank description whose
	// embedding is absent or was computed with a different model version.
	// These are the rows the embedding precompute job must process.
	ListMissingEmbeddings(ctx context.Context, modelVersion string) ([]*core.CatalogItem, error)

	// SetEmbedding stores an embedding blob and its model version for an item.
	// Returns ErrNotFound if the item doesn't exist.
	SetEmbedding(ctx context.Context, id core.ID, embedding []byte, modelVersion string) error

	// Close closes the storage backend and releases resources.
	Close() error
}

package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for catalog items.
// It is stable across index rebuilds: either assigned by the source system
// or derived deterministically from the object's qualified name.
type ID uint64

// IDFromObject generates a deterministic ID for a catalog object from its
// qualified name using BLAKE2b hashing. Identical objects always produce
// identical IDs, which keeps ids stable across reseeds.
func IDFromObject(objectType ObjectType, parentTable, name string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(objectType.String()))
	h.Write([]byte{0})
	h.Write([]byte(parentTable))
	h.Write([]byte{0})
	h.Write([]byte(name))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ObjectType identifies the kind of catalog object an item describes.
type ObjectType int

const (
	// ObjectTypeTable represents a database table.
	ObjectTypeTable ObjectType = iota + 1
	// ObjectTypeColumn represents a column within a table.
	ObjectTypeColumn
)

// String returns the wire/display name of the object type.
func (t ObjectType) String() string {
	switch t {
	case ObjectTypeTable:
		return "table"
	case ObjectTypeColumn:
		return "column"
	default:
		return "unknown"
	}
}

// ParseObjectType converts a wire name back to an ObjectType.
// Returns ErrInvalidObjectType for unrecognized names.
func ParseObjectType(s string) (ObjectType, error) {
	switch s {
	case "table":
		return ObjectTypeTable, nil
	case "column":
		return ObjectTypeColumn, nil
	default:
		return 0, ErrInvalidObjectType
	}
}

// CatalogItem represents one enriched catalog object (a table or a column).
// Descriptions and tags are produced by the upstream enrichment pipeline;
// embeddings are attached by the embedding precompute job.
type CatalogItem struct {
	Id              ID
	ObjectType      ObjectType
	ObjectName      string
	ParentTableName string // empty for tables, parent table name for columns
	Description     string // embedding source text; may be empty
	Tags            []string
	EmbeddingBytes  []byte // raw little-endian float32 blob, nil until computed
	ModelVersion    string // embedding model version, empty until computed
	InsertedAt      time.Time
	UpdatedAt       time.Time
}

// HasEmbedding reports whether an embedding has been computed for the item.
func (it *CatalogItem) HasEmbedding() bool {
	return len(it.EmbeddingBytes) > 0 && it.ModelVersion != ""
}

// QualifiedName returns "parent.name" for columns and "name" for tables.
func (it *CatalogItem) QualifiedName() string {
	if it.ParentTableName == "" {
		return it.ObjectName
	}
	return it.ParentTableName + "." + it.ObjectName
}

// ScoredResult is one retrieval hit: the matched item, its squared L2
// distance from the query, and the derived similarity score.
type ScoredResult struct {
	Item     *CatalogItem
	Distance float32
	Score    float32
}

// SimilarityFromDistance converts a squared L2 distance to a similarity
// score in (0, 1]. The transform is a monotonic re-scaling only; it makes
// no assumption about vector normalization.
func SimilarityFromDistance(distance float32) float32 {
	return 1.0 / (1.0 + distance)
}

package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablemap/tablemap/ai/mock"
	"github.com/tablemap/tablemap/core"
	"github.com/tablemap/tablemap/storage"
	badgerstore "github.com/tablemap/tablemap/storage/badger"
)

const testModelVersion = "all-minilm"

func newTestRepo(t *testing.T) storage.CatalogRepository {
	t.Helper()
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return repo
}

func addEmbeddedItem(t *testing.T, repo storage.CatalogRepository, name string, vector []float32, modelVersion string) *core.CatalogItem {
	t.Helper()
	ctx := context.Background()
	items, err := repo.AddItems(ctx, &core.CatalogItem{
		ObjectType:  core.ObjectTypeTable,
		ObjectName:  name,
		Description: "table " + name,
	})
	require.NoError(t, err)
	require.NoError(t, repo.SetEmbedding(ctx, items[0].Id, core.EncodeVector(vector), modelVersion))
	return items[0]
}

func TestLoaderLoad(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	embedder := &mock.MockEmbedder{Dim: 3}
	loader := NewLoader(repo, embedder)

	addEmbeddedItem(t, repo, "orders", []float32{1, 0, 0}, testModelVersion)
	addEmbeddedItem(t, repo, "customers", []float32{0, 1, 0}, testModelVersion)

	gen, err := loader.Load(ctx, testModelVersion)
	require.NoError(t, err)
	assert.Equal(t, 2, gen.Len())
	assert.Equal(t, 3, gen.Dimension())
	assert.Equal(t, testModelVersion, gen.ModelVersion())
	assert.False(t, gen.IsEmpty())
}

func TestLoaderLoadEmptyCatalog(t *testing.T) {
	repo := newTestRepo(t)
	loader := NewLoader(repo, &mock.MockEmbedder{Dim: 3})

	gen, err := loader.Load(context.Background(), testModelVersion)
	require.NoError(t, err)
	assert.True(t, gen.IsEmpty())
	assert.Equal(t, 0, gen.Len())
}

func TestLoaderSkipsMismatchedDimension(t *testing.T) {
	repo := newTestRepo(t)
	loader := NewLoader(repo, &mock.MockEmbedder{Dim: 3})

	good := addEmbeddedItem(t, repo, "orders", []float32{1, 0, 0}, testModelVersion)
	addEmbeddedItem(t, repo, "customers", []float32{0, 1}, testModelVersion)

	gen, err := loader.Load(context.Background(), testModelVersion)
	require.NoError(t, err)
	require.Equal(t, 1, gen.Len())

	hits, err := gen.Search([]float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, good.Id, hits[0].Item.Id)
}

func TestLoaderSkipsTruncatedBlob(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	loader := NewLoader(repo, &mock.MockEmbedder{Dim: 3})

	items, err := repo.AddItems(ctx, &core.CatalogItem{
		ObjectType:  core.ObjectTypeTable,
		ObjectName:  "orders",
		Description: "orders table",
	})
	require.NoError(t, err)
	require.NoError(t, repo.SetEmbedding(ctx, items[0].Id, []byte{1, 2, 3}, testModelVersion))

	gen, err := loader.Load(ctx, testModelVersion)
	require.NoError(t, err)
	assert.True(t, gen.IsEmpty())
}

func TestLoaderFiltersModelVersion(t *testing.T) {
	repo := newTestRepo(t)
	loader := NewLoader(repo, &mock.MockEmbedder{Dim: 3})

	current := addEmbeddedItem(t, repo, "orders", []float32{1, 0, 0}, testModelVersion)
	addEmbeddedItem(t, repo, "customers", []float32{0, 1, 0}, "nomic-embed-text")

	gen, err := loader.Load(context.Background(), testModelVersion)
	require.NoError(t, err)
	require.Equal(t, 1, gen.Len())

	hits, err := gen.Search([]float32{0, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, current.Id, hits[0].Item.Id)
}

func TestGenerationSearchScores(t *testing.T) {
	repo := newTestRepo(t)
	loader := NewLoader(repo, &mock.MockEmbedder{Dim: 2})

	addEmbeddedItem(t, repo, "orders", []float32{0, 0}, testModelVersion)
	addEmbeddedItem(t, repo, "customers", []float32{3, 4}, testModelVersion)

	gen, err := loader.Load(context.Background(), testModelVersion)
	require.NoError(t, err)

	hits, err := gen.Search([]float32{0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, float32(1), hits[0].Score)
	assert.InDelta(t, 1.0/26.0, hits[1].Score, 1e-6)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
}

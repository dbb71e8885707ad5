package embedjob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

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

func addItem(t *testing.T, repo storage.CatalogRepository, name, description string) *core.CatalogItem {
	t.Helper()
	items, err := repo.AddItems(context.Background(), &core.CatalogItem{
		ObjectType:  core.ObjectTypeTable,
		ObjectName:  name,
		Description: description,
	})
	require.NoError(t, err)
	return items[0]
}

func testConfig() *Config {
	return &Config{
		BatchSize:      2,
		Concurrency:    2,
		ReportInterval: 1,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}
}

func TestJobRunEmbedsMissingItems(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	embedder := &mock.MockEmbedder{Dim: 4}

	for i := 0; i < 5; i++ {
		addItem(t, repo, fmt.Sprintf("table_%d", i), fmt.Sprintf("description %d", i))
	}

	var out bytes.Buffer
	job := NewJob(repo, embedder, testModelVersion, testConfig(), &out)
	require.NoError(t, job.Run(ctx))

	embedded, err := repo.ListByModelVersion(ctx, testModelVersion)
	require.NoError(t, err)
	assert.Len(t, embedded, 5)
	for _, item := range embedded {
		assert.True(t, item.HasEmbedding())
		assert.Equal(t, testModelVersion, item.ModelVersion)
		vector, err := core.DecodeVector(item.EmbeddingBytes)
		require.NoError(t, err)
		assert.Len(t, vector, 4)
	}
	assert.Contains(t, out.String(), "Embedding 5 items")
	assert.Contains(t, out.String(), "Embedding complete")
}

func TestJobRunIsIncremental(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	embedder := &mock.MockEmbedder{Dim: 4}

	addItem(t, repo, "orders", "order data")

	var out bytes.Buffer
	job := NewJob(repo, embedder, testModelVersion, testConfig(), &out)
	require.NoError(t, job.Run(ctx))
	firstCalls := embedder.CallCount()

	out.Reset()
	require.NoError(t, job.Run(ctx))
	assert.Equal(t, firstCalls, embedder.CallCount())
	assert.Contains(t, out.String(), "up to date")
}

func TestJobRunReembedsStaleVersions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	embedder := &mock.MockEmbedder{Dim: 4}

	item := addItem(t, repo, "orders", "order data")
	require.NoError(t, repo.SetEmbedding(ctx, item.Id, core.EncodeVector([]float32{1, 2}), "old-model"))

	var out bytes.Buffer
	job := NewJob(repo, embedder, testModelVersion, testConfig(), &out)
	require.NoError(t, job.Run(ctx))

	updated, err := repo.GetItem(ctx, item.Id)
	require.NoError(t, err)
	assert.Equal(t, testModelVersion, updated.ModelVersion)
}

func TestJobRunSkipsBlankDescriptions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	embedder := &mock.MockEmbedder{Dim: 4}

	addItem(t, repo, "orders", "order data")
	blank := addItem(t, repo, "tmp_table", "")

	var out bytes.Buffer
	job := NewJob(repo, embedder, testModelVersion, testConfig(), &out)
	require.NoError(t, job.Run(ctx))

	item, err := repo.GetItem(ctx, blank.Id)
	require.NoError(t, err)
	assert.False(t, item.HasEmbedding())
}

func TestJobRunRetriesTransientFailures(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	var calls atomic.Int32
	embedder := &mock.MockEmbedder{Dim: 4}
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("connection reset")
		}
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = []float32{1, 2, 3, 4}
		}
		return vectors, nil
	}

	addItem(t, repo, "orders", "order data")

	var out bytes.Buffer
	job := NewJob(repo, embedder, testModelVersion, testConfig(), &out)
	require.NoError(t, job.Run(ctx))

	embedded, err := repo.ListByModelVersion(ctx, testModelVersion)
	require.NoError(t, err)
	assert.Len(t, embedded, 1)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestJobRunSurfacesPersistentFailure(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	embedder := &mock.MockEmbedder{Dim: 4}
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("model not found")
	}

	addItem(t, repo, "orders", "order data")

	config := testConfig()
	config.MaxRetries = 2
	var out bytes.Buffer
	job := NewJob(repo, embedder, testModelVersion, config, &out)
	err := job.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestJobRunCountMismatch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	embedder := &mock.MockEmbedder{Dim: 4}
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 2, 3, 4}}, nil
	}

	addItem(t, repo, "orders", "order data")
	addItem(t, repo, "customers", "customer data")

	var out bytes.Buffer
	job := NewJob(repo, embedder, testModelVersion, testConfig(), &out)
	err := job.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count mismatch")
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid max attempts", func(t *testing.T) {
		err := RetryWithBackoff(ctx, func() error { return nil }, 0, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error { calls++; return nil }, 3, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns last error", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		err := RetryWithBackoff(ctx, func() error { calls++; return boom }, 3, time.Millisecond)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, calls)
	})

	t.Run("cancelled context stops retries", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := RetryWithBackoff(cancelled, func() error { return errors.New("boom") }, 3, time.Millisecond)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestChunkItems(t *testing.T) {
	items := make([]*core.CatalogItem, 5)
	for i := range items {
		items[i] = &core.CatalogItem{Id: core.ID(i + 1)}
	}

	batches := chunkItems(items, 2)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 2)
	assert.Len(t, batches[2], 1)

	assert.Empty(t, chunkItems(nil, 2))
}

// Copyright 2025 Tablemap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package embedjob

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/tablemap/tablemap/ai"
	"github.com/tablemap/tablemap/core"
	"github.com/tablemap/tablemap/storage"
)

// Config holds configuration for the embedding job.
type Config struct {
	// BatchSize is the number of items sent to the embedder per call
	BatchSize int

	// Concurrency is the number of batches embedded in parallel.
	// Zero means runtime.NumCPU() / 2, with a minimum of 1.
	Concurrency int

	// ReportInterval is how often to report progress (number of items)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Job embeds every catalog item whose description has no embedding for the
// target model version. Items embedded with an older model version are
// re-embedded; items already current are skipped.
type Job struct {
	repo         storage.CatalogRepository
	embedder     ai.Embedder
	modelVersion string
	config       *Config
	progress     io.Writer
	logger       *slog.Logger
}

// NewJob creates a new embedding job.
// progress: where to write progress output (typically os.Stderr)
func NewJob(repo storage.CatalogRepository, embedder ai.Embedder, modelVersion string, config *Config, progress io.Writer) *Job {
	if config == nil {
		config = DefaultConfig()
	}

	return &Job{
		repo:         repo,
		embedder:     embedder,
		modelVersion: modelVersion,
		config:       config,
		progress:     progress,
		logger:       slog.Default().With("component", "embedjob"),
	}
}

// Run executes the embedding job and reports progress to the configured
// writer. Returns the first batch error encountered; batches already
// written stay written, so a rerun picks up where the failure left off.
func (j *Job) Run(ctx context.Context) error {
	items, err := j.repo.ListMissingEmbeddings(ctx, j.modelVersion)
	if err != nil {
		return fmt.Errorf("failed to query items: %w", err)
	}

	if len(items) == 0 {
		fmt.Fprintf(j.progress, "Catalog is up to date (0 items need embedding)\n")
		return nil
	}

	fmt.Fprintf(j.progress, "Embedding %d items with model version %s (batch size: %d)\n",
		len(items), j.modelVersion, j.config.BatchSize)

	tracker := NewProgressTracker(j.progress, len(items), j.config.ReportInterval)
	tracker.Start()

	concurrency := j.config.Concurrency
	if concurrency < 1 {
		concurrency = runtime.NumCPU() / 2
		if concurrency < 1 {
			concurrency = 1
		}
	}
	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	recordErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, batch := range chunkItems(items, j.config.BatchSize) {
		batch := batch
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := j.processBatch(ctx, batch); err != nil {
				j.logger.Error("batch failed", "size", len(batch), "err", err)
				recordErr(err)
				return
			}
			tracker.Increment(len(batch))
		}); err != nil {
			wg.Done()
			recordErr(fmt.Errorf("failed to submit batch: %w", err))
			break
		}
	}
	wg.Wait()
	tracker.Finish()

	if firstErr != nil {
		return firstErr
	}

	elapsed := tracker.Elapsed()
	fmt.Fprintf(j.progress, "Embedding complete. Processed %d items in %v (%.1f items/sec)\n",
		len(items), elapsed.Round(time.Second), float64(len(items))/elapsed.Seconds())
	return nil
}

// processBatch embeds one batch of items and persists the vectors.
func (j *Job) processBatch(ctx context.Context, items []*core.CatalogItem) error {
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Description
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = j.embedder.EmbedTexts(ctx, texts)
		return err
	}, j.config.MaxRetries, j.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", j.config.MaxRetries, err)
	}

	if len(embeddings) != len(items) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(items), len(embeddings))
	}

	for i, item := range items {
		blob := core.EncodeVector(embeddings[i])
		if err := j.repo.SetEmbedding(ctx, item.Id, blob, j.modelVersion); err != nil {
			return fmt.Errorf("failed to store embedding for item %d: %w", item.Id, err)
		}
	}
	return nil
}

// chunkItems splits items into batches of at most size elements.
func chunkItems(items []*core.CatalogItem, size int) [][]*core.CatalogItem {
	if size < 1 {
		size = 1
	}
	var batches [][]*core.CatalogItem
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}

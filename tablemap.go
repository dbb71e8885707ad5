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


package tablemap

import (
	"context"
	"io"
	"log/slog"

	"github.com/tablemap/tablemap/ai"
	"github.com/tablemap/tablemap/ai/openai"
	"github.com/tablemap/tablemap/embedjob"
	"github.com/tablemap/tablemap/index"
	"github.com/tablemap/tablemap/search"
	"github.com/tablemap/tablemap/storage"
	"github.com/tablemap/tablemap/storage/badger"
)

// Catalog is the top-level handle: storage, AI services, and the index
// service wired together over one database.
type Catalog struct {
	backend      *badger.Backend
	repo         storage.CatalogRepository
	provider     ai.Provider
	indexService *index.Service
	aiConfig     *ai.Config
	logger       *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the AI service configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) CatalogOption {
	return func(o *catalogOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects a pre-built AI provider, bypassing the OpenAI
// provider construction. Used by tests and embedded callers.
func WithProvider(provider ai.Provider) CatalogOption {
	return func(o *catalogOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps all data in memory instead of on disk.
func WithInMemoryStorage() CatalogOption {
	return func(o *catalogOptions) {
		o.inMemory = true
	}
}

// Open opens the catalog database at filePath and wires the retrieval
// stack over it. The index starts unloaded; call ReloadIndex before
// searching.
func Open(ctx context.Context, filePath string, opts ...CatalogOption) (*Catalog, error) {
	options := &catalogOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}
	options.aiConfig.Normalize()
	if err := options.aiConfig.Validate(); err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}
	repo := badger.NewCatalogRepository(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(ctx, options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	loader := index.NewLoader(repo, provider.Embedder())
	indexService := index.NewService(loader, options.aiConfig.ModelVersion)

	return &Catalog{
		backend:      backend,
		repo:         repo,
		provider:     provider,
		indexService: indexService,
		aiConfig:     options.aiConfig,
		logger:       slog.Default(),
	}, nil
}

// Close releases AI and storage resources.
func (c *Catalog) Close() error {
	if err := c.provider.Close(); err != nil {
		c.logger.Error("error closing AI provider", "err", err)
	}

	if err := c.backend.Close(); err != nil {
		c.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Repository returns the catalog item repository.
func (c *Catalog) Repository() storage.CatalogRepository {
	return c.repo
}

// IndexService returns the index lifecycle service.
func (c *Catalog) IndexService() *index.Service {
	return c.indexService
}

// ReloadIndex rebuilds the in-memory index from storage.
func (c *Catalog) ReloadIndex(ctx context.Context) error {
	return c.indexService.Reload(ctx)
}

// NewSearcher creates a searcher over the catalog's index and AI services.
// The configured embed timeout applies unless an option overrides it.
func (c *Catalog) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	opts = append([]search.Option{search.WithEmbedTimeout(c.aiConfig.EmbedTimeout)}, opts...)
	return search.NewSearcher(c.indexService, c.provider, opts...)
}

// NewEmbedJob creates an embedding job that fills in missing or stale
// embeddings. progress is typically os.Stderr.
func (c *Catalog) NewEmbedJob(config *embedjob.Config, progress io.Writer) *embedjob.Job {
	return embedjob.NewJob(c.repo, c.provider.Embedder(), c.indexService.ModelVersion(), config, progress)
}

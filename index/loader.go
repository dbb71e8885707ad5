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


package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tablemap/tablemap/ai"
	"github.com/tablemap/tablemap/core"
	"github.com/tablemap/tablemap/storage"
)

// Loader builds index generations from stored catalog items. Items whose
// stored embedding cannot be decoded at the expected dimension are skipped
// with a warning rather than failing the whole load.
type Loader struct {
	repo     storage.CatalogRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewLoader creates a loader over the given repository and embedder. The
// embedder supplies the expected vector dimension.
func NewLoader(repo storage.CatalogRepository, embedder ai.Embedder) *Loader {
	return &Loader{
		repo:     repo,
		embedder: embedder,
		logger:   slog.Default().With("component", "index.loader"),
	}
}

// Load builds a Generation from every item embedded with modelVersion.
// An empty catalog yields an empty, still-searchable generation.
func (l *Loader) Load(ctx context.Context, modelVersion string) (*Generation, error) {
	dim := l.embedder.Dimension()
	if dim <= 0 {
		return nil, ErrInvalidDimension
	}

	rows, err := l.repo.ListByModelVersion(ctx, modelVersion)
	if err != nil {
		return nil, fmt.Errorf("listing items for model version %q: %w", modelVersion, err)
	}

	items := make([]*core.CatalogItem, 0, len(rows))
	vectors := make([][]float32, 0, len(rows))
	skipped := 0
	for _, item := range rows {
		vector, err := core.DecodeVector(item.EmbeddingBytes)
		if err != nil {
			l.logger.Warn("skipping item with undecodable embedding",
				"id", item.Id,
				"object", item.QualifiedName(),
				"error", err)
			skipped++
			continue
		}
		if len(vector) != dim {
			l.logger.Warn("skipping item with mismatched embedding dimension",
				"id", item.Id,
				"object", item.QualifiedName(),
				"dimension", len(vector),
				"expected", dim)
			skipped++
			continue
		}
		items = append(items, item)
		vectors = append(vectors, vector)
	}

	gen, err := NewGeneration(modelVersion, dim, items, vectors)
	if err != nil {
		return nil, fmt.Errorf("building generation: %w", err)
	}

	l.logger.Info("index generation loaded",
		"model_version", modelVersion,
		"dimension", dim,
		"items", gen.Len(),
		"skipped", skipped)
	return gen, nil
}

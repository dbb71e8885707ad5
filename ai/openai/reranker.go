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


package openai

import (
	"context"
	"log/slog"
	"time"

	"github.com/tablemap/tablemap/ai"
	"github.com/tablemap/tablemap/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Reranker implements ai.Reranker using OpenAI-compatible chat APIs.
//
// The model's output is untrusted free-form text; the returned ordering is
// produced with ai.ParseRankedIDs and therefore only ever names ids from
// the candidate set.
type Reranker struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// newReranker is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newReranker(config *ai.Config) (*Reranker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.RerankHost),
		openai.WithToken("none"),
		openai.WithModel(config.RerankModel),
	)
	if err != nil {
		return nil, err
	}

	return &Reranker{
		client:  client,
		timeout: config.RerankTimeout,
		logger:  slog.Default().With("component", "openai-reranker"),
	}, nil
}

// NewReranker creates a new reranker using the provided configuration.
//
// Returns ai.Reranker interface to enforce abstraction.
func NewReranker(config *ai.Config) (ai.Reranker, error) {
	return newReranker(config)
}

// RerankIDs asks the LLM to reorder candidates by relevance to the query.
// The call is bounded by the configured timeout.
func (r *Reranker) RerankIDs(ctx context.Context, query string, candidates []ai.Candidate) ([]core.ID, error) {
	if len(candidates) == 0 {
		return []core.ID{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	prompt := buildRerankPrompt(query, candidates)
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	// Low temperature for deterministic ordering output
	response, err := r.client.GenerateContent(ctx, content, llms.WithTemperature(0.1))
	if err != nil {
		r.logger.Warn("rerank call failed", "candidates", len(candidates), "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		r.logger.Debug("no choices returned from rerank model")
		return []core.ID{}, nil
	}

	raw := response.Choices[0].Content
	ranked := ai.ParseRankedIDs(raw, candidates)

	r.logger.Debug("rerank response parsed",
		"raw", raw,
		"candidates", len(candidates),
		"ranked", len(ranked))

	return ranked, nil
}

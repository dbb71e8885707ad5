package ai

import (
	"context"

	"github.com/tablemap/tablemap/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// An empty input yields an empty output, not an error.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the fixed output dimension of the embedding model.
	// It must not require an embedding call and is constant for the
	// lifetime of the embedder.
	Dimension() int
}

// Candidate is one retrieved item handed to a reranker: its id and the
// text the model should judge relevance by.
type Candidate struct {
	Id   core.ID
	Text string
}

// Reranker reorders retrieval candidates by relevance to a query using a
// higher-precision signal, typically an LLM.
// Implementations must be thread-safe for concurrent use.
type Reranker interface {
	// RerankIDs returns candidate ids in the model's preferred order.
	// The returned ordering may be partial and contains only ids present in
	// the candidate set; callers append unmentioned candidates themselves.
	// The model's raw output is untrusted and must be parsed defensively
	// (see ParseRankedIDs).
	// Returns an error if the model is unreachable or times out;
	// callers treat any error as "no re-ranking", never as a search failure.
	RerankIDs(ctx context.Context, query string, candidates []Candidate) ([]core.ID, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and Reranker instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Reranker returns the re-ranking service.
	// The returned Reranker is safe for concurrent use.
	Reranker() Reranker

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tablemap/tablemap/ai"
	"github.com/tablemap/tablemap/core"
	"github.com/tablemap/tablemap/index"
)

// DefaultLimit is the number of results returned when the caller does not
// specify one.
const DefaultLimit = 10

// DefaultEmbedTimeout bounds the query-embedding call when no timeout is
// configured. A hung embedding service must not hang the request.
const DefaultEmbedTimeout = 15 * time.Second

// Status describes the outcome class of a search.
type Status string

const (
	// StatusOK means the search ran against a populated index.
	StatusOK Status = "ok"

	// StatusEmptyIndex means the index is loaded but holds no items. The
	// search succeeds with zero results.
	StatusEmptyIndex Status = "empty_index"

	// StatusUnavailable means no index generation has been loaded yet.
	// This is a state, not an error; callers retry after a reload.
	StatusUnavailable Status = "index_unavailable"
)

// Options tunes a single search call.
type Options struct {
	// Limit caps the number of results. Zero means DefaultLimit.
	Limit int

	// Rerank enables the LLM re-rank pass over the retrieved candidates.
	Rerank bool
}

// Response is the outcome of one search: a status and the scored results.
// Results are in final presentation order; when re-ranking ran, Reranked is
// true and the order is the LLM's permutation of the retrieval hits.
type Response struct {
	Status   Status
	Results  []core.ScoredResult
	Reranked bool
}

// Searcher runs the retrieval pipeline over the active index generation.
type Searcher struct {
	index        *index.Service
	embedder     ai.Embedder
	reranker     ai.Reranker
	embedTimeout time.Duration
	logger       *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithEmbedTimeout sets the per-call timeout for embedding the query.
// Default is DefaultEmbedTimeout; non-positive values keep the default.
func WithEmbedTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		if timeout > 0 {
			s.embedTimeout = timeout
		}
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(indexService *index.Service, provider ai.Provider, opts ...Option) (*Searcher, error) {
	if indexService == nil {
		return nil, ErrIndexServiceRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		index:        indexService,
		embedder:     provider.Embedder(),
		reranker:     provider.Reranker(),
		embedTimeout: DefaultEmbedTimeout,
		logger:       slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search retrieves catalog items relevant to the query.
// Returns ErrEmptyQuery for blank queries and a wrapped ErrEmbeddingFailed
// when the query cannot be embedded. An unavailable or empty index is
// reported through the response status, not as an error.
func (s *Searcher) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	return s.SearchWithMonitor(ctx, query, opts, nil)
}

// SearchWithMonitor runs Search with monitoring callbacks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, opts Options, monitor SearchMonitor) (*Response, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	monitor.Start(query)

	// The generation acquired here serves the whole call; concurrent
	// reloads swap in a new one without touching this snapshot.
	gen := s.index.Active()
	if gen == nil {
		s.logger.Warn("search requested before index load", "state", s.index.State())
		return &Response{Status: StatusUnavailable}, nil
	}
	if gen.IsEmpty() {
		return &Response{Status: StatusEmptyIndex}, nil
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	vector, err := s.embedder.EmbedText(embedCtx, query)
	cancel()
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	monitor.AfterEmbedding(vector)

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	results, err := gen.Search(vector, limit)
	if err != nil {
		s.logger.Error("error searching index", "err", err)
		return nil, err
	}
	monitor.AfterVectorSearch(results)

	response := &Response{Status: StatusOK, Results: results}
	if opts.Rerank && len(results) > 1 {
		response.Results, response.Reranked = s.applyRerank(ctx, query, results, monitor)
	}

	monitor.Finish(response.Results)
	return response, nil
}

// applyRerank asks the reranker to reorder the retrieval hits and applies
// the answer as a permutation. Any failure keeps the retrieval order.
func (s *Searcher) applyRerank(ctx context.Context, query string, results []core.ScoredResult, monitor SearchMonitor) ([]core.ScoredResult, bool) {
	candidates := make([]ai.Candidate, len(results))
	for i, r := range results {
		candidates[i] = ai.Candidate{Id: r.Item.Id, Text: r.Item.Description}
	}

	ranked, err := s.reranker.RerankIDs(ctx, query, candidates)
	if err == nil && len(ranked) == 0 {
		err = ErrNoRankedIDs
	}
	if err != nil {
		s.logger.Warn("re-ranking failed, keeping retrieval order", "err", err)
		monitor.RerankDegraded(err)
		return results, false
	}
	monitor.AfterRerank(ranked)

	return reorderResults(results, ranked), true
}

// reorderResults permutes results into the ranked id order. Ids not in the
// result set are ignored, repeated ids keep their first position, and
// results the ranking never mentioned follow in their retrieval order.
// The output is always a permutation of the input.
func reorderResults(results []core.ScoredResult, ranked []core.ID) []core.ScoredResult {
	byID := make(map[core.ID]core.ScoredResult, len(results))
	for _, r := range results {
		byID[r.Item.Id] = r
	}

	out := make([]core.ScoredResult, 0, len(results))
	seen := make(map[core.ID]bool, len(results))
	for _, id := range ranked {
		r, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		out = append(out, r)
		seen[id] = true
	}
	for _, r := range results {
		if !seen[r.Item.Id] {
			out = append(out, r)
		}
	}
	return out
}

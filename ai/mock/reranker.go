package mock

import (
	"context"

	"github.com/tablemap/tablemap/ai"
	"github.com/tablemap/tablemap/core"
)

// MockReranker is a test double for ai.Reranker.
// It allows custom behavior injection via function fields.
type MockReranker struct {
	// RerankIDsFunc is called by RerankIDs if set.
	// If nil, the candidate order is returned unchanged.
	RerankIDsFunc func(ctx context.Context, query string, candidates []ai.Candidate) ([]core.ID, error)

	callCount int
}

// NewMockReranker creates a mock reranker that preserves candidate order.
// Note: Returns concrete type to allow test assertions via GetMockReranker().
func NewMockReranker() *MockReranker {
	return &MockReranker{}
}

// RerankIDs returns the injected ordering, or the candidates' own order.
func (m *MockReranker) RerankIDs(ctx context.Context, query string, candidates []ai.Candidate) ([]core.ID, error) {
	m.callCount++

	if m.RerankIDsFunc != nil {
		return m.RerankIDsFunc(ctx, query, candidates)
	}

	ids := make([]core.ID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.Id
	}
	return ids, nil
}

// CallCount returns the number of times RerankIDs was called.
func (m *MockReranker) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockReranker) Reset() {
	m.callCount = 0
	m.RerankIDsFunc = nil
}

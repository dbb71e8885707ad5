package search

import (
	"github.com/tablemap/tablemap/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterEmbedding(vector []float32)
	AfterVectorSearch(results []core.ScoredResult)
	AfterRerank(ranked []core.ID)
	RerankDegraded(err error)
	Finish(results []core.ScoredResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterEmbedding(_ []float32)             {}
func (n *noopMonitor) AfterVectorSearch(_ []core.ScoredResult) {}
func (n *noopMonitor) AfterRerank(_ []core.ID)                {}
func (n *noopMonitor) RerankDegraded(_ error)                 {}
func (n *noopMonitor) Finish(_ []core.ScoredResult)           {}

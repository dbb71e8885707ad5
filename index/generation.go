package index

import (
	"github.com/tablemap/tablemap/core"
)

// Generation is an immutable snapshot of the searchable catalog: the items
// that carried a usable embedding for one model version, plus the flat index
// built over their vectors. A Generation never changes after construction;
// replacing the catalog means building a new Generation and swapping it in.
type Generation struct {
	modelVersion string
	items        []*core.CatalogItem
	flat         *Flat
}

// NewGeneration builds a snapshot from parallel item and vector slices.
func NewGeneration(modelVersion string, dim int, items []*core.CatalogItem, vectors [][]float32) (*Generation, error) {
	if len(items) != len(vectors) {
		return nil, ErrLengthMismatch
	}
	flat, err := NewFlat(dim, vectors)
	if err != nil {
		return nil, err
	}
	return &Generation{
		modelVersion: modelVersion,
		items:        items,
		flat:         flat,
	}, nil
}

// ModelVersion returns the embedding model version this snapshot was built
// for.
func (g *Generation) ModelVersion() string { return g.modelVersion }

// Dimension returns the vector dimension of the snapshot.
func (g *Generation) Dimension() int { return g.flat.Dimension() }

// Len returns the number of indexed items.
func (g *Generation) Len() int { return g.flat.Len() }

// IsEmpty reports whether the snapshot holds no indexed items.
func (g *Generation) IsEmpty() bool { return g.flat.Len() == 0 }

// Search returns up to k items nearest to query in ascending distance order,
// with similarity scores derived from the distances.
func (g *Generation) Search(query []float32, k int) ([]core.ScoredResult, error) {
	neighbors, err := g.flat.Search(query, k)
	if err != nil {
		return nil, err
	}
	results := make([]core.ScoredResult, len(neighbors))
	for i, n := range neighbors {
		results[i] = core.ScoredResult{
			Item:     g.items[n.Pos],
			Distance: n.Distance,
			Score:    core.SimilarityFromDistance(n.Distance),
		}
	}
	return results, nil
}

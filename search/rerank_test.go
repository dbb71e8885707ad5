package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablemap/tablemap/core"
)

func scored(ids ...core.ID) []core.ScoredResult {
	results := make([]core.ScoredResult, len(ids))
	for i, id := range ids {
		results[i] = core.ScoredResult{
			Item:  &core.CatalogItem{Id: id, ObjectType: core.ObjectTypeTable, ObjectName: "t"},
			Score: 1.0 / float32(i+1),
		}
	}
	return results
}

func resultIDs(results []core.ScoredResult) []core.ID {
	ids := make([]core.ID, len(results))
	for i, r := range results {
		ids[i] = r.Item.Id
	}
	return ids
}

func TestReorderResults(t *testing.T) {
	t.Run("full permutation", func(t *testing.T) {
		out := reorderResults(scored(5, 9, 2), []core.ID{9, 5, 2})
		assert.Equal(t, []core.ID{9, 5, 2}, resultIDs(out))
	})

	t.Run("partial ranking appends rest in retrieval order", func(t *testing.T) {
		out := reorderResults(scored(5, 9, 2), []core.ID{9, 5})
		assert.Equal(t, []core.ID{9, 5, 2}, resultIDs(out))
	})

	t.Run("unknown ids ignored", func(t *testing.T) {
		out := reorderResults(scored(5, 9, 2), []core.ID{42, 9, 100, 5})
		assert.Equal(t, []core.ID{9, 5, 2}, resultIDs(out))
	})

	t.Run("repeats keep first position", func(t *testing.T) {
		out := reorderResults(scored(5, 9, 2), []core.ID{2, 9, 2, 9, 2})
		assert.Equal(t, []core.ID{2, 9, 5}, resultIDs(out))
	})

	t.Run("empty ranking preserves retrieval order", func(t *testing.T) {
		out := reorderResults(scored(5, 9, 2), nil)
		assert.Equal(t, []core.ID{5, 9, 2}, resultIDs(out))
	})

	t.Run("identity ranking is idempotent", func(t *testing.T) {
		in := scored(5, 9, 2)
		out := reorderResults(in, []core.ID{5, 9, 2})
		assert.Equal(t, in, out)
	})
}

func TestReorderResultsIsPermutation(t *testing.T) {
	in := scored(1, 2, 3, 4, 5)
	rankings := [][]core.ID{
		{5, 4, 3, 2, 1},
		{3},
		{99, 98, 97},
		{2, 2, 2},
		nil,
	}
	for _, ranked := range rankings {
		out := reorderResults(in, ranked)
		require.Len(t, out, len(in))
		assert.ElementsMatch(t, resultIDs(in), resultIDs(out))
	}
}

func TestReorderResultsPreservesScores(t *testing.T) {
	in := scored(5, 9, 2)
	byID := make(map[core.ID]float32)
	for _, r := range in {
		byID[r.Item.Id] = r.Score
	}
	out := reorderResults(in, []core.ID{2, 5, 9})
	for _, r := range out {
		assert.Equal(t, byID[r.Item.Id], r.Score)
	}
}

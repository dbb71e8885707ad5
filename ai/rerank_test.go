package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tablemap/tablemap/core"
)

func candidateSet(ids ...core.ID) []Candidate {
	candidates := make([]Candidate, len(ids))
	for i, id := range ids {
		candidates[i] = Candidate{Id: id, Text: "item"}
	}
	return candidates
}

func TestParseRankedIDs(t *testing.T) {
	candidates := candidateSet(5, 9, 2)

	tests := []struct {
		name     string
		response string
		want     []core.ID
	}{
		{
			name:     "clean list",
			response: "9,5,2",
			want:     []core.ID{9, 5, 2},
		},
		{
			name:     "whitespace and partial",
			response: " 9 , 5 ",
			want:     []core.ID{9, 5},
		},
		{
			name:     "malformed token dropped",
			response: "9, abc, 5",
			want:     []core.ID{9, 5},
		},
		{
			name:     "out-of-set ids dropped",
			response: "9,123,5,42",
			want:     []core.ID{9, 5},
		},
		{
			name:     "repeated id keeps first occurrence",
			response: "9,5,9,2",
			want:     []core.ID{9, 5, 2},
		},
		{
			name:     "empty response",
			response: "",
			want:     nil,
		},
		{
			name:     "fully invalid response",
			response: "I think the best order is: first, second, third.",
			want:     nil,
		},
		{
			name:     "negative numbers dropped",
			response: "-9,5",
			want:     []core.ID{5},
		},
		{
			name:     "trailing commas and blanks",
			response: "2,,5,",
			want:     []core.ID{2, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRankedIDs(tt.response, candidates)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRankedIDs_NoCandidates(t *testing.T) {
	got := ParseRankedIDs("1,2,3", nil)
	assert.Empty(t, got)
}

package ai

import (
	"strconv"
	"strings"

	"github.com/tablemap/tablemap/core"
)

// ParseRankedIDs extracts an ordering from a rerank model's raw text
// output. The model is asked for a comma-separated id list, but its output
// is untrusted: tokens that are not valid integers or that name ids outside
// the candidate set are discarded. The first occurrence of an id wins;
// repeats are dropped.
//
// An empty or fully-invalid response yields an empty ordering.
func ParseRankedIDs(response string, candidates []Candidate) []core.ID {
	allowed := make(map[core.ID]bool, len(candidates))
	for _, c := range candidates {
		allowed[c.Id] = true
	}

	var ranked []core.ID
	for _, token := range strings.Split(response, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		n, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			continue
		}
		id := core.ID(n)
		if !allowed[id] {
			continue
		}
		ranked = append(ranked, id)
		delete(allowed, id) // first occurrence wins
	}
	return ranked
}

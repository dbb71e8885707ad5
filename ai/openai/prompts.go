package openai

import (
	"fmt"
	"strings"

	"github.com/tablemap/tablemap/ai"
)

// maxCandidateChars truncates each candidate's text in the rerank prompt.
// Protects against oversized prompts when descriptions are long.
const maxCandidateChars = 500

const rerankPromptTemplate = `Original User Query: "%s"

I have retrieved the following items based on a semantic search. Each item has an ID and a Description.
Please re-rank these items based on their relevance to the Original User Query.
Provide a comma-separated list of the item IDs in the new order of relevance (most relevant first).
You MUST ONLY output the comma-separated list of IDs. Do not include any other text, titles, or explanations.
For example: 123,45,678

Items to re-rank:
%s

Re-ranked IDs (comma-separated list ONLY):`

// buildRerankPrompt renders the rerank prompt for a query and candidate set.
func buildRerankPrompt(query string, candidates []ai.Candidate) string {
	var items strings.Builder
	for _, c := range candidates {
		text := c.Text
		if text == "" {
			text = "No description available."
		}
		if len(text) > maxCandidateChars {
			text = text[:maxCandidateChars]
		}
		// Escape backslashes first, then quotes, so descriptions can't
		// break out of the quoted prompt line.
		text = strings.ReplaceAll(text, `\`, `\\`)
		text = strings.ReplaceAll(text, `"`, `\"`)
		fmt.Fprintf(&items, "ID: %d, Description: \"%s\"\n", c.Id, text)
	}
	return fmt.Sprintf(rerankPromptTemplate, query, strings.TrimSpace(items.String()))
}

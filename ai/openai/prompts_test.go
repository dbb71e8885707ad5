package openai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tablemap/tablemap/ai"
)

func TestBuildRerankPrompt(t *testing.T) {
	candidates := []ai.Candidate{
		{Id: 12, Text: "Stores customer contact information"},
		{Id: 34, Text: ""},
	}

	prompt := buildRerankPrompt("customer info", candidates)

	assert.Contains(t, prompt, `Original User Query: "customer info"`)
	assert.Contains(t, prompt, `ID: 12, Description: "Stores customer contact information"`)
	assert.Contains(t, prompt, `ID: 34, Description: "No description available."`)
	assert.Contains(t, prompt, "comma-separated list")
}

func TestBuildRerankPrompt_EscapesQuotes(t *testing.T) {
	candidates := []ai.Candidate{
		{Id: 7, Text: `column "status" with \ backslash`},
	}

	prompt := buildRerankPrompt("orders", candidates)
	assert.Contains(t, prompt, `ID: 7, Description: "column \"status\" with \\ backslash"`)
}

func TestBuildRerankPrompt_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", maxCandidateChars*2)
	candidates := []ai.Candidate{{Id: 1, Text: long}}

	prompt := buildRerankPrompt("q", candidates)
	assert.NotContains(t, prompt, long)
	assert.Contains(t, prompt, strings.Repeat("x", maxCandidateChars))
}

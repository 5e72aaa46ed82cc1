package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/graphseek/core"
)

func sampleResults(n int) []core.MatchResult {
	results := make([]core.MatchResult, 0, n)
	for i := 0; i < n; i++ {
		results = append(results, core.MatchResult{
			UID:       core.UID(strings.Repeat(string(rune('a'+i%26)), 9)),
			Content:   "some note content about topic " + strings.Repeat("x", i%7),
			EditTime:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			PageTitle: "Page",
		})
	}
	return results
}

func TestEmbedContract(t *testing.T) {
	assert.Equal(t, "{{[[embed-path]]: ((abc123def))}}", EmbedRef("abc123def"))
	assert.Equal(t, "[[Project Alpha]]", PageRef("Project Alpha"))
}

func TestCandidatesRendering(t *testing.T) {
	r := New(0)

	out := r.Candidates([]core.MatchResult{{
		UID:                  "abc123def",
		Content:              "parent content",
		PageTitle:            "Recipes",
		ChildMatchingContent: []string{"child one", "child two", "child three", "child four"},
	}})

	assert.Contains(t, out, "((abc123def))")
	assert.Contains(t, out, "[[Recipes]]")
	assert.Contains(t, out, "parent content")
	assert.Contains(t, out, "child one")
	assert.Contains(t, out, "child three")
	assert.NotContains(t, out, "child four", "descendant sample is capped")
}

func TestCandidatesTokenBudget(t *testing.T) {
	small := New(40)
	large := New(DefaultTokenBudget)
	results := sampleResults(200)

	limited := small.Candidates(results)
	full := large.Candidates(results)

	require.NotEmpty(t, limited, "at least one candidate always renders")
	assert.Less(t, len(limited), len(full))
}

func TestCandidatesTruncatesLongChildren(t *testing.T) {
	r := New(0)
	long := strings.Repeat("y", 500)

	out := r.Candidates([]core.MatchResult{{
		UID:                  "abc123def",
		Content:              "c",
		PageTitle:            "P",
		ChildMatchingContent: []string{long},
	}})

	assert.NotContains(t, out, long)
	assert.Contains(t, out, "…")
}

func TestDisplayRendering(t *testing.T) {
	r := New(0)
	out := r.Display(sampleResults(2)[:2])

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "{{[[embed-path]]: (("))
	assert.Contains(t, lines[0], "[[Page]]")
}

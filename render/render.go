// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package render

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"github.com/poiesic/graphseek/core"
)

// DefaultTokenBudget bounds the flattened candidate rendering handed to the
// LLM collaborators.
const DefaultTokenBudget = 6000

// maxChildSample caps the matching-descendant lines rendered per block.
const maxChildSample = 3

// maxChildRunes truncates long descendant contents in the rendering.
const maxChildRunes = 200

// EmbedRef formats a block reference for emitted text. The token is a hard
// contract with the host display layer.
func EmbedRef(uid core.UID) string {
	return fmt.Sprintf("{{[[embed-path]]: ((%s))}}", uid)
}

// PageRef formats a page reference for emitted text.
func PageRef(title string) string {
	return fmt.Sprintf("[[%s]]", title)
}

// Renderer flattens match results into the textual forms consumed by the
// preselection and post-processing collaborators and by the display layer.
// Candidate renderings are truncated to a token budget.
type Renderer struct {
	encoder *tiktoken.Tiktoken
	budget  int
}

// New creates a renderer with the given token budget (0 uses the default).
// The encoder load can fail offline; the renderer then falls back to a
// character-based token estimate.
func New(budget int) *Renderer {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	encoder, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	if err != nil {
		encoder = nil
	}
	return &Renderer{encoder: encoder, budget: budget}
}

// countTokens estimates the token count of text.
func (r *Renderer) countTokens(text string) int {
	if r.encoder != nil {
		return len(r.encoder.Encode(text, nil, nil))
	}
	// Rough average of four characters per token.
	return len(text)/4 + 1
}

// Candidates renders blocks for the LLM collaborators, one block per entry:
// uid marker, page, content, and a truncated sample of matching descendants.
// Rendering stops once the token budget is exhausted.
func (r *Renderer) Candidates(results []core.MatchResult) string {
	var b strings.Builder
	used := 0
	for _, res := range results {
		entry := renderCandidate(res)
		cost := r.countTokens(entry)
		if used+cost > r.budget && used > 0 {
			break
		}
		b.WriteString(entry)
		used += cost
	}
	return b.String()
}

func renderCandidate(res core.MatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- ((%s)) %s: %s\n", res.UID, PageRef(res.PageTitle), res.Content)
	for i, child := range res.ChildMatchingContent {
		if i >= maxChildSample {
			break
		}
		fmt.Fprintf(&b, "    - %s\n", truncate(child, maxChildRunes))
	}
	return b.String()
}

// Display renders results for the host display layer using the embed-path
// contract, most recent first in the order given.
func (r *Renderer) Display(results []core.MatchResult) string {
	var b strings.Builder
	for _, res := range results {
		fmt.Fprintf(&b, "%s %s\n", EmbedRef(res.UID), PageRef(res.PageTitle))
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}

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


package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/graphseek/ai"
	"github.com/tmc/langchaingo/llms"
)

// Expander implements ai.SemanticExpander using OpenAI-compatible chat APIs.
type Expander struct {
	client        llms.Model
	maxExpansions int
	logger        *slog.Logger
}

// expansion is the wrapper structure for the LLM's JSON response.
type expansion struct {
	Variants []string `json:"variants"`
}

// newExpander is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newExpander(config *ai.Config) (*Expander, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newClient(config.CompletionHost, config.CompletionModel, config.APIKey)
	if err != nil {
		return nil, err
	}

	return &Expander{
		client:        client,
		maxExpansions: config.MaxExpansions,
		logger:        slog.Default().With("component", "openai-expander"),
	}, nil
}

// NewExpander creates a new semantic expander using the provided configuration.
//
// Returns ai.SemanticExpander interface to enforce abstraction.
func NewExpander(config *ai.Config) (ai.SemanticExpander, error) {
	return newExpander(config)
}

// ExpandTerm returns same-language variants for the term, excluding the term
// itself. Variants containing search list operators are dropped so they stay
// composable into filters.
func (e *Expander) ExpandTerm(ctx context.Context, term string) ([]string, error) {
	term = cleanTerm(term)
	if term == "" {
		return []string{}, nil
	}

	var result expansion
	err := generateJSON(ctx, e.client, e.logger, buildExpansionPrompt(e.maxExpansions), term, &result)
	if err != nil {
		return nil, err
	}

	variants := make([]string, 0, len(result.Variants))
	seen := map[string]bool{strings.ToLower(term): true}
	for _, v := range result.Variants {
		v = strings.TrimSpace(v)
		if v == "" || strings.ContainsAny(v, "|+<>") {
			continue
		}
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		variants = append(variants, v)
		if len(variants) >= e.maxExpansions {
			break
		}
	}

	e.logger.Debug("expanded term", "term", term, "variants", len(variants))
	return variants, nil
}

// cleanTerm strips surrounding punctuation a caller may have carried over
// from raw query text before the term goes into a prompt.
func cleanTerm(s string) string {
	return strings.TrimSpace(strings.Trim(s, ".,!?;:\"'()[]{}"))
}

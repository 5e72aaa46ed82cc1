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
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/graphseek/ai"
	"github.com/tmc/langchaingo/llms"
)

// CacheRouter implements ai.CacheRouter using OpenAI-compatible chat APIs.
type CacheRouter struct {
	client llms.Model
	logger *slog.Logger
}

// cachedSummary matches the JSON shape shown to the model for one cached
// result set.
type cachedSummary struct {
	ID      string `json:"id"`
	Query   string `json:"query"`
	Results int    `json:"results"`
}

// newCacheRouter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCacheRouter(config *ai.Config) (*CacheRouter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newClient(config.InterpreterHost, config.InterpreterModel, config.APIKey)
	if err != nil {
		return nil, err
	}

	return &CacheRouter{
		client: client,
		logger: slog.Default().With("component", "openai-cacherouter"),
	}, nil
}

// NewCacheRouter creates a new cache router using the provided configuration.
//
// Returns ai.CacheRouter interface to enforce abstraction.
func NewCacheRouter(config *ai.Config) (ai.CacheRouter, error) {
	return newCacheRouter(config)
}

// RouteCache decides whether cached result sets can answer the request.
// With nothing cached the answer is always a fresh search; no model call is
// made.
func (r *CacheRouter) RouteCache(ctx context.Context, req ai.CacheRouteInput) (*ai.CacheDecision, error) {
	if len(req.Cached) == 0 {
		return &ai.CacheDecision{Action: ai.ActionNewSearch}, nil
	}

	var result ai.CacheDecision
	err := generateJSON(ctx, r.client, r.logger, buildCacheRoutingPrompt(), buildRouteUserPrompt(req), &result)
	if err != nil {
		return nil, err
	}

	// Normalize: an unknown action or a use_cache verdict without targets
	// degrades to a fresh search rather than an error.
	if result.Action != ai.ActionUseCache && result.Action != ai.ActionNewSearch {
		r.logger.Warn("model returned unknown cache action", "action", result.Action)
		result = ai.CacheDecision{Action: ai.ActionNewSearch}
	}
	if result.Action == ai.ActionUseCache {
		result.TargetIDs = knownTargets(result.TargetIDs, req.Cached)
		if len(result.TargetIDs) == 0 {
			result = ai.CacheDecision{Action: ai.ActionNewSearch}
		}
	}

	r.logger.Debug("routed cache", "action", result.Action, "targets", len(result.TargetIDs))
	return &result, nil
}

func buildRouteUserPrompt(req ai.CacheRouteInput) string {
	summaries := make([]cachedSummary, 0, len(req.Cached))
	for _, c := range req.Cached {
		summaries = append(summaries, cachedSummary{
			ID:      c.ID,
			Query:   c.UserQuery,
			Results: c.ResultCount,
		})
	}
	data, _ := json.Marshal(summaries)

	var b strings.Builder
	if history := buildHistoryBlock(req.History); history != "" {
		b.WriteString(history)
		b.WriteString("\n")
	}
	b.WriteString("Cached: ")
	b.Write(data)
	b.WriteString("\nRequest: ")
	b.WriteString(req.UserQuery)
	return b.String()
}

// knownTargets drops target ids that do not name a cached set.
func knownTargets(ids []string, cached []ai.CachedResultSummary) []string {
	valid := make(map[string]bool, len(cached))
	for _, c := range cached {
		valid[c.ID] = true
	}
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if valid[id] {
			kept = append(kept, id)
		}
	}
	return kept
}

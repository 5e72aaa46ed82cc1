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
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/graphseek/ai"
	"github.com/poiesic/graphseek/core"
	"github.com/tmc/langchaingo/llms"
)

// Preselector implements ai.Preselector using OpenAI-compatible chat APIs.
type Preselector struct {
	client llms.Model
	logger *slog.Logger
}

// preselection is the wrapper structure for the LLM's JSON response.
type preselection struct {
	UIDs []string `json:"uids"`
}

// newPreselector is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newPreselector(config *ai.Config) (*Preselector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newClient(config.CompletionHost, config.CompletionModel, config.APIKey)
	if err != nil {
		return nil, err
	}

	return &Preselector{
		client: client,
		logger: slog.Default().With("component", "openai-preselector"),
	}, nil
}

// NewPreselector creates a new preselector using the provided configuration.
//
// Returns ai.Preselector interface to enforce abstraction.
func NewPreselector(config *ai.Config) (ai.Preselector, error) {
	return newPreselector(config)
}

// Preselect returns the uids of the candidate blocks most relevant to the
// request, at most limit entries. UIDs not present in the candidate rendering
// are dropped.
func (p *Preselector) Preselect(ctx context.Context, userQuery, rendered string, limit int) ([]core.UID, error) {
	userPrompt := fmt.Sprintf("Request: %s\n\nCandidates:\n%s", userQuery, rendered)

	var result preselection
	err := generateJSON(ctx, p.client, p.logger, buildPreselectionPrompt(limit), userPrompt, &result)
	if err != nil {
		return nil, err
	}

	uids := make([]core.UID, 0, len(result.UIDs))
	seen := make(map[string]bool, len(result.UIDs))
	for _, raw := range result.UIDs {
		if raw == "" || seen[raw] {
			continue
		}
		// Hallucinated uids would break embedding downstream.
		if !strings.Contains(rendered, "(("+raw+"))") {
			p.logger.Warn("model returned unknown uid", "uid", raw)
			continue
		}
		seen[raw] = true
		uids = append(uids, core.UID(raw))
		if len(uids) >= limit {
			break
		}
	}

	p.logger.Debug("preselected candidates", "returned", len(result.UIDs), "kept", len(uids))
	return uids, nil
}

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
	"log/slog"

	"github.com/poiesic/graphseek/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages the interpreter, expander, preselector, post-processor and cache
// router instances.
type Provider struct {
	config        *ai.Config
	interpreter   *Interpreter
	expander      *Expander
	preselector   *Preselector
	postprocessor *PostProcessor
	cacherouter   *CacheRouter
	logger        *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	interpreter, err := newInterpreter(config)
	if err != nil {
		return nil, err
	}

	expander, err := newExpander(config)
	if err != nil {
		return nil, err
	}

	preselector, err := newPreselector(config)
	if err != nil {
		return nil, err
	}

	postprocessor, err := newPostProcessor(config)
	if err != nil {
		return nil, err
	}

	cacherouter, err := newCacheRouter(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:        config,
		interpreter:   interpreter,
		expander:      expander,
		preselector:   preselector,
		postprocessor: postprocessor,
		cacherouter:   cacherouter,
		logger:        slog.Default().With("component", "openai-provider"),
	}, nil
}

// QueryInterpreter returns the NL-to-search-list service.
func (p *Provider) QueryInterpreter() ai.QueryInterpreter {
	return p.interpreter
}

// QuestionInterpreter returns the broadening interpreter service.
func (p *Provider) QuestionInterpreter() ai.QuestionInterpreter {
	return p.interpreter
}

// SemanticExpander returns the term expansion service.
func (p *Provider) SemanticExpander() ai.SemanticExpander {
	return p.expander
}

// Preselector returns the relevance preselection service.
func (p *Provider) Preselector() ai.Preselector {
	return p.preselector
}

// PostProcessor returns the answer synthesis service.
func (p *Provider) PostProcessor() ai.PostProcessor {
	return p.postprocessor
}

// CacheRouter returns the cache-reuse routing service.
func (p *Provider) CacheRouter() ai.CacheRouter {
	return p.cacherouter
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}

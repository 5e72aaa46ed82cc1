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


package graphseek

import (
	"log/slog"
	"time"

	"github.com/poiesic/graphseek/ai"
	"github.com/poiesic/graphseek/ai/openai"
	"github.com/poiesic/graphseek/engine"
	"github.com/poiesic/graphseek/ingest"
	"github.com/poiesic/graphseek/orchestrate"
	"github.com/poiesic/graphseek/query"
	"github.com/poiesic/graphseek/render"
	"github.com/poiesic/graphseek/storage"
	"github.com/poiesic/graphseek/storage/badger"
)

// Agent wires the block store, AI provider and search pipeline into one
// handle. It is the entry point library consumers and the CLI share.
type Agent struct {
	backend      *badger.Backend
	blockRepo    storage.BlockRepository
	pageRepo     storage.PageRepository
	provider     ai.AIProvider
	orchestrator *orchestrate.Orchestrator
	logger       *slog.Logger
}

// AgentOption configures an Agent.
type AgentOption func(*agentOptions)

type agentOptions struct {
	aiConfig      *ai.Config
	provider      ai.AIProvider
	searchConfig  orchestrate.Config
	engineConfig  engine.Config
	tokenBudget   int
	choiceTimeout time.Duration
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(cfg *ai.Config) AgentOption {
	return func(o *agentOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithAIProvider substitutes a pre-built AI provider, bypassing the OpenAI
// provider construction. Intended for tests and embedded deployments.
func WithAIProvider(provider ai.AIProvider) AgentOption {
	return func(o *agentOptions) {
		o.provider = provider
	}
}

// WithSearchConfig tunes the orchestration walk.
func WithSearchConfig(cfg orchestrate.Config) AgentOption {
	return func(o *agentOptions) {
		o.searchConfig = cfg
	}
}

// WithEngineConfig tunes the graph query engine.
func WithEngineConfig(cfg engine.Config) AgentOption {
	return func(o *agentOptions) {
		o.engineConfig = cfg
	}
}

// WithTokenBudget bounds the rendered candidate text handed to the LLM
// collaborators.
func WithTokenBudget(budget int) AgentOption {
	return func(o *agentOptions) {
		o.tokenBudget = budget
	}
}

// WithChoiceTimeout bounds how long a continuation token stays redeemable.
func WithChoiceTimeout(d time.Duration) AgentOption {
	return func(o *agentOptions) {
		o.choiceTimeout = d
	}
}

// NewAgent opens the store at filePath (in-memory when empty) and assembles
// the search pipeline.
func NewAgent(filePath string, opts ...AgentOption) (*Agent, error) {
	options := &agentOptions{
		aiConfig:     ai.DefaultConfig(),
		engineConfig: engine.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	blockRepo, err := badger.NewBlockRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	pageRepo, err := badger.NewPageRepository(backend)
	if err != nil {
		blockRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			pageRepo.Close()
			blockRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	compiler := query.NewCompiler(provider.SemanticExpander())
	eng := engine.New(blockRepo, options.engineConfig)
	renderer := render.New(options.tokenBudget)
	machine := orchestrate.NewMachine(provider, compiler, eng, renderer, blockRepo, options.searchConfig)
	orchestrator := orchestrate.NewOrchestrator(machine, provider, options.choiceTimeout)

	return &Agent{
		backend:      backend,
		blockRepo:    blockRepo,
		pageRepo:     pageRepo,
		provider:     provider,
		orchestrator: orchestrator,
		logger:       slog.Default(),
	}, nil
}

// Close releases the AI provider and the storage backend.
func (a *Agent) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	if err := a.pageRepo.Close(); err != nil {
		a.logger.Error("error closing page repository", "err", err)
		return err
	}
	if err := a.blockRepo.Close(); err != nil {
		a.logger.Error("error closing block repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// BlockRepository exposes the block store.
func (a *Agent) BlockRepository() storage.BlockRepository {
	return a.blockRepo
}

// PageRepository exposes the page store.
func (a *Agent) PageRepository() storage.PageRepository {
	return a.pageRepo
}

// Orchestrator exposes the conversation entry points.
func (a *Agent) Orchestrator() *orchestrate.Orchestrator {
	return a.orchestrator
}

// NewConversation starts an empty conversation against this agent.
func (a *Agent) NewConversation() *orchestrate.Conversation {
	return orchestrate.NewConversation()
}

// NewImporter builds a bulk importer over this agent's repositories.
func (a *Agent) NewImporter(opts ...ingest.Option) (*ingest.Importer, error) {
	return ingest.NewImporter(a.blockRepo, a.pageRepo, opts...)
}

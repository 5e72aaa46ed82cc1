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


package mock

import "github.com/poiesic/graphseek/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock instances of all AI services.
type MockProvider struct {
	interpreter   *MockInterpreter
	expander      *MockExpander
	preselector   *MockPreselector
	postprocessor *MockPostProcessor
	cacherouter   *MockCacheRouter
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use the GetMockX accessors to reach concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		interpreter:   NewMockInterpreter(),
		expander:      NewMockExpander(),
		preselector:   NewMockPreselector(),
		postprocessor: NewMockPostProcessor(),
		cacherouter:   NewMockCacheRouter(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(
	interpreter *MockInterpreter,
	expander *MockExpander,
	preselector *MockPreselector,
	postprocessor *MockPostProcessor,
	cacherouter *MockCacheRouter,
) ai.AIProvider {
	return &MockProvider{
		interpreter:   interpreter,
		expander:      expander,
		preselector:   preselector,
		postprocessor: postprocessor,
		cacherouter:   cacherouter,
	}
}

// QueryInterpreter returns the mock interpreter.
func (p *MockProvider) QueryInterpreter() ai.QueryInterpreter {
	return p.interpreter
}

// QuestionInterpreter returns the mock interpreter.
func (p *MockProvider) QuestionInterpreter() ai.QuestionInterpreter {
	return p.interpreter
}

// SemanticExpander returns the mock expander.
func (p *MockProvider) SemanticExpander() ai.SemanticExpander {
	return p.expander
}

// Preselector returns the mock preselector.
func (p *MockProvider) Preselector() ai.Preselector {
	return p.preselector
}

// PostProcessor returns the mock post-processor.
func (p *MockProvider) PostProcessor() ai.PostProcessor {
	return p.postprocessor
}

// CacheRouter returns the mock cache router.
func (p *MockProvider) CacheRouter() ai.CacheRouter {
	return p.cacherouter
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockInterpreter returns the underlying mock interpreter for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockInterpreter() *MockInterpreter {
	return p.interpreter
}

// GetMockExpander returns the underlying mock expander for test assertions.
func (p *MockProvider) GetMockExpander() *MockExpander {
	return p.expander
}

// GetMockPreselector returns the underlying mock preselector for test assertions.
func (p *MockProvider) GetMockPreselector() *MockPreselector {
	return p.preselector
}

// GetMockPostProcessor returns the underlying mock post-processor for test assertions.
func (p *MockProvider) GetMockPostProcessor() *MockPostProcessor {
	return p.postprocessor
}

// GetMockCacheRouter returns the underlying mock cache router for test assertions.
func (p *MockProvider) GetMockCacheRouter() *MockCacheRouter {
	return p.cacherouter
}

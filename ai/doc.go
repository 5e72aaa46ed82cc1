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


// Package ai provides abstractions for the AI services used in Graphseek.
//
// This package defines interfaces for the language-model collaborators of the
// search agent: query interpretation, question interpretation, semantic term
// expansion, candidate preselection, answer synthesis and cache routing. It
// follows the dependency inversion principle, allowing the search engine and
// orchestration logic to depend on abstractions rather than concrete
// implementations.
//
// # Design Principles
//
// The package is designed around a small set of single-method interfaces:
//
//   - QueryInterpreter: Turns natural language into a structured search request
//   - QuestionInterpreter: Broadens a search when keywords alone cannot answer
//   - SemanticExpander: Produces same-language variants for a search term
//   - Preselector: Narrows large candidate sets before post-processing
//   - PostProcessor: Synthesizes a final answer from selected blocks
//   - CacheRouter: Decides whether cached result sets can answer a follow-up
//   - AIProvider: Aggregates the services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider and friends) return INTERFACE types
// to enforce abstraction and prevent accidental coupling to concrete
// implementations. Test utility constructors in ai/mock return CONCRETE types
// to enable test assertions and behavior injection via the mock's public
// methods (CallCount, WithXFunc, Reset, etc.).
//
//	provider, err := openai.NewProvider(config)   // returns ai.AIProvider
//	mockInterp := mock.NewMockInterpreter()       // returns *mock.MockInterpreter
//	mockInterp.WithInterpretQueryFunc(...)        // needs concrete type
//
// The mock.NewMockProvider() returns an interface since it's the primary entry
// point, but provides GetMockInterpreter()/GetMockExpander()/... accessors for
// assertions when needed.
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	req, err := provider.QueryInterpreter().InterpretQuery(ctx, ai.InterpretInput{
//	    UserQuery:   "blocks about project deadlines from last week",
//	    CurrentDate: time.Now(),
//	})
package ai

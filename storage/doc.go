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


// Package storage provides the storage abstraction layer for graphseek.
//
// This package defines repository interfaces that decouple the hierarchical
// block store implementation from the query engine and orchestration layers.
// It allows for different storage backends (BadgerDB, in-memory, etc.) to be
// used interchangeably.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - BlockRepository: operations over blocks, including the three fixed
//     descendant-traversal rules (direct children, two levels, unbounded)
//     the query engine depends on
//   - PageRepository: operations over pages and the title index
//   - Repository: transaction support and lifecycle, shared by both
//
// # Traversal rules
//
// Descendant traversal is bounded by selecting one of three distinct
// iteration strategies (TraversalRule), not by truncating an unbounded walk
// after the fact. This keeps subtree queries cheap on large graphs.
//
// # Usage
//
// Create repositories over a shared backend:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	blocks, err := badger.NewBlockRepository(backend)
//	pages, err := badger.NewPageRepository(backend)
//
// Use in tests with in-memory storage:
//
//	blocks, pages, backend, err := badger.NewMemoryRepositories()
//
// # Thread safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context support
//
// All repository methods accept context.Context for cancellation and timeout
// support.
package storage

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


// Package engine executes compiled filter sets against the hierarchical
// block store.
//
// A run layers three strategies: a conjunctive fast path that finds blocks
// matching every filter in their own content, a per-filter expansion that
// anchors on blocks matching a single filter and checks the remaining
// filters against the anchor's bounded-depth subtree, and a sibling fallback
// that surfaces a parent whose distinct children split a two-filter match
// between them.
//
// Depth bounds are enforced by selecting one of three traversal rules in the
// storage layer (direct children, two levels, unbounded), never by
// truncating an unbounded walk. Results are deduplicated by uid, and the
// originating block plus its ancestor path are excluded so a query never
// matches itself.
//
// The engine is stateless between runs; re-running identical requests over
// an unchanged store is idempotent.
package engine

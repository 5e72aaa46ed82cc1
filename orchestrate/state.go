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


package orchestrate

import (
	"time"

	"github.com/poiesic/graphseek/ai"
	"github.com/poiesic/graphseek/core"
)

// Node names the stages of the orchestration graph.
type Node string

const (
	NodeInterpreter         Node = "nl-query-interpreter"
	NodeQuestionInterpreter Node = "nl-question-interpreter"
	NodeChecker             Node = "checker"
	NodeConverter           Node = "searchlist-converter"
	NodeQueryRunner         Node = "queryRunner"
	NodeLimitAndOrder       Node = "limitAndOrder"
	NodePreselection        Node = "preselection-filter"
	NodePostProcess         Node = "post-processing"
	NodeOutput              Node = "output"

	// nodeTerminal ends the walk.
	nodeTerminal Node = ""
)

// State is the request-scoped value threaded through the stages of one turn.
// Stages never mutate the state they receive; each returns a new value, so
// the walk can re-enter a node on retry from exactly the state it first saw.
type State struct {
	// UserQuery is the raw request for this turn.
	UserQuery string

	// CurrentDate anchors relative date expressions.
	CurrentDate time.Time

	// History is the rendered conversation so far, oldest first.
	History []string

	// Guidance is prepended context carried over from an insufficient
	// cache-processing step.
	Guidance string

	// ExcludeUID is the block the request originated from.
	ExcludeUID core.UID

	// Request is the structured interpretation, once produced.
	Request *ai.InterpretedRequest

	// AlternativeTried records that the question interpreter already ran,
	// so routing does not loop back into it.
	AlternativeTried bool

	// SearchLists holds the symbolic lists awaiting compilation.
	SearchLists []string

	// FilterSets holds the compiled filter arrays not yet executed. The
	// query runner pops one per iteration.
	FilterSets [][]core.Filter

	// NoUsableQuery records that compilation yielded no executable filters;
	// the turn terminates with the empty-result message.
	NoUsableQuery bool

	// Matches accumulates engine output across filter-set iterations,
	// deduplicated by uid.
	Matches []core.MatchResult

	// Filtered is the ranked, limited candidate set.
	Filtered []core.MatchResult

	// Selected is the preselected subset handed to post-processing.
	Selected []core.MatchResult

	// Answer is the synthesized final answer, when post-processing ran.
	Answer string

	// ShiftDisplay carries the pagination offset into Filtered across
	// repeated output invocations.
	ShiftDisplay int

	// ErrorInNode tracks the node that failed last; a second
	// consecutive failure at the same node escalates to a terminal error.
	ErrorInNode Node

	// RetryInstructions carries corrective guidance into a retried
	// interpretation call.
	RetryInstructions string
}

// matchedUIDs returns the uids already accumulated, for merge deduplication.
func (s State) matchedUIDs() map[core.UID]bool {
	set := make(map[core.UID]bool, len(s.Matches))
	for _, m := range s.Matches {
		set[m.UID] = true
	}
	return set
}

// effectiveQuery is the user query with carried-over guidance prepended.
func (s State) effectiveQuery() string {
	if s.Guidance == "" {
		return s.UserQuery
	}
	return s.Guidance + "\n" + s.UserQuery
}

// Package orchestrate drives a natural-language request through the search
// pipeline: interpretation, symbolic-list compilation, graph execution,
// ranking, optional relevance preselection and answer synthesis, and output.
//
// The pipeline is a small state machine. Each stage is a pure function over
// an immutable State value: it returns a new state and the name of the next
// node, so a failed interpretation stage can be re-entered exactly once from
// the state it first saw, carrying corrective instructions. Execution errors
// are terminal and never retried; user cancellation surfaces as the distinct
// ErrCancelled.
//
// Around the machine, Orchestrator adds conversation handling: result sets
// are cached per conversation and a router decides each turn whether they can
// answer the new request or a fresh search is needed. Turns that truncate
// their results mint a Continuation token; Resume redeems it to page through
// or widen the result set within a bounded choice window.
package orchestrate

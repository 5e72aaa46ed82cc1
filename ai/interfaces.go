package ai

import (
	"context"

	"github.com/poiesic/graphseek/core"
)

// QueryInterpreter translates a natural-language request into a structured
// search request (symbolic search list plus execution parameters).
// Implementations must be thread-safe for concurrent use.
type QueryInterpreter interface {
	// InterpretQuery analyzes the user request and returns a structured
	// InterpretedRequest. Returns an error if the model output cannot be
	// parsed into the schema.
	InterpretQuery(ctx context.Context, req InterpretInput) (*InterpretedRequest, error)
}

// QuestionInterpreter produces a broader, alternative search list when plain
// keyword matching is judged insufficient to answer an analytical question.
type QuestionInterpreter interface {
	// InterpretQuestion returns an InterpretedRequest whose AlternativeList
	// widens the original search.
	InterpretQuestion(ctx context.Context, req InterpretInput) (*InterpretedRequest, error)
}

// SemanticExpander supplies same-language synonyms or related variants for a
// single search term, used by the filter compiler for "~" expansion.
type SemanticExpander interface {
	// ExpandTerm returns expansion variants for the term, excluding the
	// term itself. Returns an empty slice when no useful variants exist.
	ExpandTerm(ctx context.Context, term string) ([]string, error)
}

// Preselector narrows a large candidate set to the most relevant subset
// before expensive post-processing.
type Preselector interface {
	// Preselect receives the user request and a flattened textual rendering
	// of candidate blocks and returns the UIDs of the most relevant ones,
	// at most limit entries.
	Preselect(ctx context.Context, userQuery, rendered string, limit int) ([]core.UID, error)
}

// PostProcessor synthesizes a final answer from selected blocks.
type PostProcessor interface {
	// Synthesize returns free text referencing block UIDs via the embed
	// syntax "{{[[embed-path]]: ((uid))}}".
	Synthesize(ctx context.Context, userQuery, rendered string) (string, error)
}

// CacheRouter decides per conversation turn whether previously cached result
// sets can answer the new request or a fresh search is needed.
type CacheRouter interface {
	// RouteCache returns the reuse decision for the request given summaries
	// of the cached result sets.
	RouteCache(ctx context.Context, req CacheRouteInput) (*CacheDecision, error)
}

// AIProvider aggregates the LLM collaborators for convenient initialization
// and lifecycle management. All returned services share configuration and
// are safe for concurrent use.
type AIProvider interface {
	// QueryInterpreter returns the NL-to-search-list service.
	QueryInterpreter() QueryInterpreter

	// QuestionInterpreter returns the broadening interpreter service.
	QuestionInterpreter() QuestionInterpreter

	// SemanticExpander returns the term expansion service.
	SemanticExpander() SemanticExpander

	// Preselector returns the relevance preselection service.
	Preselector() Preselector

	// PostProcessor returns the answer synthesis service.
	PostProcessor() PostProcessor

	// CacheRouter returns the cache-reuse routing service.
	CacheRouter() CacheRouter

	// Close releases resources held by the provider and its services.
	Close() error
}

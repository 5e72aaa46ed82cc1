package ai

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/poiesic/graphseek/core"
)

// InterpretInput carries the user request plus interpretation context.
type InterpretInput struct {
	// UserQuery is the raw natural-language request.
	UserQuery string

	// CurrentDate anchors relative date expressions ("last week").
	CurrentDate time.Time

	// History is a rendering of prior conversation turns, oldest first.
	History []string

	// RetryInstructions carries corrective guidance after a failed parse.
	RetryInstructions string

	// PriorRequest is the already-interpreted request being broadened, set
	// only for question interpretation.
	PriorRequest *InterpretedRequest
}

// PeriodRange is the interpreter's date window, both bounds optional,
// formatted "2006-01-02".
type PeriodRange struct {
	Begin string `json:"begin,omitempty"`
	End   string `json:"end,omitempty"`
}

// InterpretedRequest is the structured result of NL interpretation. This is
// the schema contract with the interpretation collaborator.
type InterpretedRequest struct {
	// SearchList is the symbolic search list ("word1 + word2|word3 - word4").
	SearchList string `json:"searchList"`

	// AlternativeList is an optional second, disjoint search list.
	AlternativeList string `json:"alternativeList,omitempty"`

	// NbOfResults is the number of results the user asked for (0 = default).
	NbOfResults int `json:"nbOfResults"`

	// IsRandom requests random sampling instead of recency ordering.
	IsRandom bool `json:"isRandom"`

	// IsPostProcessingNeeded requests an LLM-synthesized answer over the
	// matched blocks rather than a raw listing.
	IsPostProcessingNeeded bool `json:"isPostProcessingNeeded"`

	// IsInferenceNeeded signals that keywords alone cannot answer the
	// question and a broader alternative list should be generated.
	IsInferenceNeeded bool `json:"isInferenceNeeded"`

	// DepthLimitation is 0 (same block), 1 (direct children) or 2 (two
	// levels); nil means unbounded descent.
	DepthLimitation *int `json:"depthLimitation,omitempty"`

	// PagesLimitation is "" (none), "dnp" (daily note pages) or a page
	// title pattern.
	PagesLimitation string `json:"pagesLimitation,omitempty"`

	// Period restricts results by edit date.
	Period *PeriodRange `json:"period,omitempty"`
}

// Validate checks the interpreted request against the schema contract.
func (r *InterpretedRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SearchList, validation.Required),
		validation.Field(&r.NbOfResults, validation.Min(0), validation.Max(200)),
		validation.Field(&r.DepthLimitation, validation.By(validateDepth)),
		validation.Field(&r.Period, validation.By(validatePeriod)),
	)
}

func validateDepth(value any) error {
	depth, ok := value.(*int)
	if !ok || depth == nil {
		return nil
	}
	if *depth < 0 || *depth > 2 {
		return fmt.Errorf("depthLimitation must be 0, 1 or 2, got %d", *depth)
	}
	return nil
}

func validatePeriod(value any) error {
	period, ok := value.(*PeriodRange)
	if !ok || period == nil {
		return nil
	}
	for _, bound := range []string{period.Begin, period.End} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", bound); err != nil {
			return fmt.Errorf("period bound %q: %v", bound, err)
		}
	}
	return nil
}

// Depth maps the schema value onto the engine's depth limitation.
func (r *InterpretedRequest) Depth() core.DepthLimitation {
	if r.DepthLimitation == nil {
		return core.DepthUnbounded
	}
	return core.DepthLimitation(*r.DepthLimitation)
}

// Scope maps the schema value onto the engine's page limitation.
func (r *InterpretedRequest) Scope() core.PagesLimitation {
	switch r.PagesLimitation {
	case "":
		return core.PagesLimitation{Kind: core.ScopeAllPages}
	case "dnp":
		return core.PagesLimitation{Kind: core.ScopeDailyPages}
	default:
		return core.PagesLimitation{Kind: core.ScopeTitlePattern, TitlePattern: r.PagesLimitation}
	}
}

// PeriodWindow maps the schema period onto the engine's period type.
func (r *InterpretedRequest) PeriodWindow() (core.Period, error) {
	var period core.Period
	if r.Period == nil {
		return period, nil
	}
	if r.Period.Begin != "" {
		begin, err := time.Parse("2006-01-02", r.Period.Begin)
		if err != nil {
			return period, err
		}
		period.Begin = begin
	}
	if r.Period.End != "" {
		end, err := time.Parse("2006-01-02", r.Period.End)
		if err != nil {
			return period, err
		}
		period.End = end
	}
	return period, nil
}

// CachedResultSummary describes one cached result set to the cache router.
type CachedResultSummary struct {
	ID          string
	UserQuery   string
	ResultCount int
	Timestamp   time.Time
}

// CacheRouteInput carries a new request plus cached result set summaries.
type CacheRouteInput struct {
	UserQuery string
	Cached    []CachedResultSummary
	History   []string
}

// CacheAction is the cache router's verdict.
type CacheAction string

const (
	// ActionUseCache answers the request from cached result sets.
	ActionUseCache CacheAction = "use_cache"
	// ActionNewSearch triggers a fresh search.
	ActionNewSearch CacheAction = "need_new_search"
)

// CacheDecision is the structured reuse decision. Insufficient may be set by
// a cache-processing step that started from the cache and found it lacking:
// the orchestrator then falls back to a fresh search with Guidance prepended
// to the reformulated query.
type CacheDecision struct {
	Action       CacheAction `json:"action"`
	TargetIDs    []string    `json:"targetIds,omitempty"`
	Guidance     string      `json:"guidance,omitempty"`
	Insufficient bool        `json:"insufficient,omitempty"`
}

// OutputKind tags a raw-vs-parsed model output variant.
type OutputKind int

const (
	// OutputParsed holds a schema-conformant parsed value.
	OutputParsed OutputKind = iota + 1
	// OutputRaw holds unparsed model text.
	OutputRaw
)

// ModelOutput is the tagged union of provider response shapes. Adapters
// resolve it once at the boundary; everything downstream consumes the
// normalized parsed form.
type ModelOutput struct {
	Kind   OutputKind
	Parsed *InterpretedRequest
	Raw    string
}

// Resolve returns the parsed request, or an error for raw/unresolved output.
func (o ModelOutput) Resolve() (*InterpretedRequest, error) {
	if o.Kind == OutputParsed && o.Parsed != nil {
		return o.Parsed, nil
	}
	return nil, fmt.Errorf("%w: %.80q", ErrUnparsedOutput, o.Raw)
}

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
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/graphseek/ai"
	"github.com/poiesic/graphseek/core"
)

// DefaultChoiceTimeout bounds how long a continuation token stays redeemable.
const DefaultChoiceTimeout = 5 * time.Minute

// askToolName tags result sets produced by the search pipeline in the
// per-conversation cache.
const askToolName = "ask_graph"

// ResumeDecision selects what a continuation resume should do.
type ResumeDecision string

const (
	// ResumeShowMore advances the display window to the next result page.
	ResumeShowMore ResumeDecision = "show_more"

	// ResumeExpand re-ranks the full match set without the original result
	// cap, widening what the turn can show.
	ResumeExpand ResumeDecision = "expand"
)

// Continuation is a redeemable token standing for a paused turn. It replaces
// long-lived listeners: the turn ends normally and the token carries the
// state a follow-up decision needs.
type Continuation struct {
	ID           string
	Conversation *Conversation
	State        State
	CreatedAt    time.Time
}

// TurnResult is the product of one conversation turn: the walk outcome plus
// an optional continuation token when a follow-up choice is meaningful.
type TurnResult struct {
	*Outcome

	// ContinuationID is redeemable through Resume while the choice window
	// is open. Empty when the turn left nothing to expand or page through.
	ContinuationID string
}

// Orchestrator drives conversations: cache routing on entry, the machine
// walk, result caching, and continuation resumes. It is safe for concurrent
// use across conversations; turns within one conversation must be serialized
// by the caller.
type Orchestrator struct {
	machine       *Machine
	provider      ai.AIProvider
	choiceTimeout time.Duration

	mu            sync.Mutex
	continuations map[string]*Continuation
}

// NewOrchestrator wraps a machine with conversation handling. A non-positive
// choiceTimeout uses the default.
func NewOrchestrator(machine *Machine, provider ai.AIProvider, choiceTimeout time.Duration) *Orchestrator {
	if choiceTimeout <= 0 {
		choiceTimeout = DefaultChoiceTimeout
	}
	return &Orchestrator{
		machine:       machine,
		provider:      provider,
		choiceTimeout: choiceTimeout,
		continuations: make(map[string]*Continuation),
	}
}

// RunTurn processes one user request within the conversation. Cached result
// sets from earlier turns are consulted first unless the conversation is
// private or the cache is empty; a reuse decision that proves insufficient
// falls back to a fresh search with the router's guidance prepended.
func (o *Orchestrator) RunTurn(ctx context.Context, conv *Conversation, userQuery string) (*TurnResult, error) {
	state := State{
		UserQuery:   userQuery,
		CurrentDate: time.Now(),
	}
	// Private turns run content-blind: earlier displayed results and
	// synthesized answers stay out of the interpretation prompts.
	if !conv.Private {
		state.History = append([]string{}, conv.History...)
	}

	if !conv.Private && conv.Store != nil && len(conv.Store.Active()) > 0 {
		result, handled, err := o.tryCache(ctx, conv, &state)
		if err != nil {
			return nil, err
		}
		if handled {
			return o.finishTurn(conv, userQuery, result), nil
		}
	}

	outcome, err := o.machine.Run(ctx, state)
	if err != nil {
		return nil, err
	}
	return o.finishTurn(conv, userQuery, outcome), nil
}

// tryCache consults the cache router. It returns handled=false when a fresh
// search should run, possibly after mutating state with the router's
// guidance.
func (o *Orchestrator) tryCache(ctx context.Context, conv *Conversation, state *State) (*Outcome, bool, error) {
	decision, err := o.provider.CacheRouter().RouteCache(ctx, ai.CacheRouteInput{
		UserQuery: state.UserQuery,
		Cached:    conv.Store.Summaries(),
		History:   state.History,
	})
	if err != nil {
		// Routing is advisory; on failure, search fresh.
		return nil, false, nil
	}
	if decision.Action != ai.ActionUseCache {
		return nil, false, nil
	}
	if decision.Insufficient {
		state.Guidance = decision.Guidance
		return nil, false, nil
	}

	var entries []*ResultEntry
	for _, id := range decision.TargetIDs {
		if entry, ok := conv.Store.Get(id); ok {
			entries = append(entries, entry)
		}
	}
	merged := DedupeMerge(entries...)
	if len(merged) == 0 {
		return nil, false, nil
	}

	matches := make([]core.MatchResult, 0, len(merged))
	for _, m := range merged {
		matches = append(matches, m.MatchResult)
	}

	// Re-rank and answer over the reused set without re-interpreting.
	cacheState := *state
	cacheState.Matches = matches
	cacheState.Request = &ai.InterpretedRequest{IsPostProcessingNeeded: true}
	outcome, err := o.machine.Walk(ctx, NodeLimitAndOrder, cacheState)
	if err != nil {
		return nil, false, err
	}
	return outcome, true, nil
}

// finishTurn records the outcome in the conversation and mints a
// continuation token when a follow-up choice is meaningful. Private turns
// leave no trace: neither the history nor the result store keeps them.
func (o *Orchestrator) finishTurn(conv *Conversation, userQuery string, outcome *Outcome) *TurnResult {
	if !conv.Private {
		conv.AppendTurn(userQuery, outcome.Display)
		if conv.Store != nil && len(outcome.Results) > 0 {
			conv.Store.Add(askToolName, userQuery, outcome.Results, outcome.Truncated)
		}
	}
	conv.HasLimitedResults = outcome.Truncated

	result := &TurnResult{Outcome: outcome}
	if outcome.Truncated {
		cont := &Continuation{
			ID:           uuid.NewString(),
			Conversation: conv,
			State:        outcome.State,
			CreatedAt:    time.Now(),
		}
		o.mu.Lock()
		o.continuations[cont.ID] = cont
		o.mu.Unlock()
		result.ContinuationID = cont.ID
	}
	return result
}

// Resume redeems a continuation token with the user's decision. A token can
// be redeemed repeatedly while the choice window is open, but never
// concurrently within one conversation.
func (o *Orchestrator) Resume(ctx context.Context, id string, decision ResumeDecision) (*TurnResult, error) {
	o.mu.Lock()
	cont, ok := o.continuations[id]
	o.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContinuation, id)
	}
	if time.Since(cont.CreatedAt) > o.choiceTimeout {
		o.mu.Lock()
		delete(o.continuations, id)
		o.mu.Unlock()
		return nil, ErrChoiceTimeout
	}

	conv := cont.Conversation
	if !conv.resuming.CompareAndSwap(false, true) {
		return nil, ErrResumeInFlight
	}
	defer conv.resuming.Store(false)

	state := cont.State
	var entry Node
	switch decision {
	case ResumeShowMore:
		state.ShiftDisplay += o.machine.Config().PageSize
		entry = NodeOutput
	case ResumeExpand:
		conv.ExpansionLevel++
		if state.Request != nil {
			// The request is shared with the suspended state and earlier
			// outcomes; lift the cap on a copy.
			lifted := *state.Request
			lifted.NbOfResults = len(state.Matches)
			state.Request = &lifted
		}
		entry = NodeLimitAndOrder
	default:
		return nil, fmt.Errorf("%w: decision %q", ErrUnknownContinuation, decision)
	}

	outcome, err := o.machine.Walk(ctx, entry, state)
	if err != nil {
		return nil, err
	}

	conv.HasLimitedResults = outcome.Truncated
	result := &TurnResult{Outcome: outcome}
	if outcome.Truncated {
		cont.State = outcome.State
		cont.CreatedAt = time.Now()
		result.ContinuationID = cont.ID
	} else {
		o.mu.Lock()
		delete(o.continuations, id)
		o.mu.Unlock()
	}
	return result, nil
}

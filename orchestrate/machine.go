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
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/graphseek/ai"
	"github.com/poiesic/graphseek/core"
	"github.com/poiesic/graphseek/engine"
	"github.com/poiesic/graphseek/query"
	"github.com/poiesic/graphseek/render"
	"github.com/poiesic/graphseek/storage"
)

// Config tunes the orchestration walk.
type Config struct {
	// DefaultResultCap is the result count used when the request does not
	// name one.
	DefaultResultCap int

	// OverFetchFactor widens the limit stage's cap when a later reduction
	// stage (preselection or synthesis) will narrow the set further.
	OverFetchFactor int

	// PreselectionThreshold is the candidate count above which relevance
	// preselection runs before synthesis.
	PreselectionThreshold int

	// PageSize is the number of results shown per output page.
	PageSize int
}

// DefaultConfig returns the standard orchestration tuning.
func DefaultConfig() Config {
	return Config{
		DefaultResultCap:      20,
		OverFetchFactor:       3,
		PreselectionThreshold: 20,
		PageSize:              10,
	}
}

// Outcome is the terminal product of one orchestration walk.
type Outcome struct {
	// Answer is the synthesized text, empty when no synthesis ran.
	Answer string

	// Display is the rendered result listing for the current page.
	Display string

	// Results is the full ranked result set of the turn.
	Results []core.MatchResult

	// Empty reports that the turn produced no matching blocks. This is a
	// normal condition, not an error.
	Empty bool

	// NoUsableQuery reports that the request could not be turned into any
	// executable filter (for example, all stopwords).
	NoUsableQuery bool

	// Truncated reports that Display shows fewer results than Results
	// holds, so a follow-up expansion or pagination is meaningful.
	Truncated bool

	// State is the final pipeline state, retained for pagination resumes.
	State State
}

// nodeFunc advances the state by one stage and names the next node.
type nodeFunc func(ctx context.Context, s State) (State, Node, error)

// Machine walks a request through the interpretation, compilation, execution
// and presentation stages. It holds only immutable collaborators and is safe
// for concurrent walks.
type Machine struct {
	provider ai.AIProvider
	compiler *query.Compiler
	engine   *engine.Engine
	renderer *render.Renderer
	blocks   storage.BlockRepository
	cfg      Config
	logger   *slog.Logger

	nodes map[Node]nodeFunc
}

// NewMachine assembles the orchestration graph. Zero config fields fall back
// to DefaultConfig values.
func NewMachine(provider ai.AIProvider, compiler *query.Compiler, eng *engine.Engine, renderer *render.Renderer, blocks storage.BlockRepository, cfg Config) *Machine {
	def := DefaultConfig()
	if cfg.DefaultResultCap <= 0 {
		cfg.DefaultResultCap = def.DefaultResultCap
	}
	if cfg.OverFetchFactor <= 0 {
		cfg.OverFetchFactor = def.OverFetchFactor
	}
	if cfg.PreselectionThreshold <= 0 {
		cfg.PreselectionThreshold = def.PreselectionThreshold
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}

	m := &Machine{
		provider: provider,
		compiler: compiler,
		engine:   eng,
		renderer: renderer,
		blocks:   blocks,
		cfg:      cfg,
		logger:   slog.Default().With("component", "orchestrator"),
	}
	m.nodes = map[Node]nodeFunc{
		NodeInterpreter:         m.runInterpreter,
		NodeQuestionInterpreter: m.runQuestionInterpreter,
		NodeChecker:             m.runChecker,
		NodeConverter:           m.runConverter,
		NodeQueryRunner:         m.runQueryRunner,
		NodeLimitAndOrder:       m.runLimitAndOrder,
		NodePreselection:        m.runPreselection,
		NodePostProcess:         m.runPostProcess,
	}
	return m
}

// Config returns the normalized tuning the machine runs with.
func (m *Machine) Config() Config {
	return m.cfg
}

// Walk drives the state machine from entry until the output node terminates
// the turn. An InterpretationError re-enters its node once with corrective
// instructions; a second consecutive failure at the same node, or any
// QueryExecutionError, ends the walk.
func (m *Machine) Walk(ctx context.Context, entry Node, s State) (*Outcome, error) {
	node := entry
	for node != nodeTerminal {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
		}

		if node == NodeOutput {
			outcome := m.runOutput(s)
			return outcome, nil
		}

		fn, ok := m.nodes[node]
		if !ok {
			return nil, &QueryExecutionError{Err: fmt.Errorf("no such node %q", node)}
		}

		next, nextNode, err := fn(ctx, s)
		if err != nil {
			// An abort that lands mid-stage surfaces as a wrapped context
			// error. It is a cancelled outcome, not a stage failure, and
			// must never burn the stage's retry.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
			}
			var interp *InterpretationError
			if errors.As(err, &interp) {
				if s.ErrorInNode == interp.Node {
					m.logger.Error("stage failed twice, giving up",
						"node", interp.Node, "error", interp.Err)
					return nil, err
				}
				m.logger.Warn("stage failed, retrying once",
					"node", interp.Node, "error", interp.Err)
				s.ErrorInNode = interp.Node
				s.RetryInstructions = interp.Err.Error()
				node = retryEntry(interp.Node)
				continue
			}
			return nil, err
		}
		s = next
		node = nextNode
	}
	return m.runOutput(s), nil
}

// retryEntry maps a failed node to the node the retry re-enters. Compilation
// failures re-enter interpretation, since the symbolic list itself was bad.
func retryEntry(failed Node) Node {
	if failed == NodeConverter {
		return NodeInterpreter
	}
	return failed
}

// Run walks a fresh turn from the interpreter.
func (m *Machine) Run(ctx context.Context, s State) (*Outcome, error) {
	return m.Walk(ctx, NodeInterpreter, s)
}

func (m *Machine) runInterpreter(ctx context.Context, s State) (State, Node, error) {
	req, err := m.provider.QueryInterpreter().InterpretQuery(ctx, ai.InterpretInput{
		UserQuery:         s.effectiveQuery(),
		CurrentDate:       s.CurrentDate,
		History:           s.History,
		RetryInstructions: s.RetryInstructions,
	})
	if err != nil {
		return s, nodeTerminal, &InterpretationError{Node: NodeInterpreter, Err: err}
	}

	s.RetryInstructions = ""
	s.Request = req
	s.SearchLists = append([]string{}, req.SearchList)
	if req.AlternativeList != "" {
		s.SearchLists = append(s.SearchLists, req.AlternativeList)
	}
	m.logger.Debug("query interpreted",
		"searchList", req.SearchList,
		"alternative", req.AlternativeList,
		"postProcess", req.IsPostProcessingNeeded,
		"inference", req.IsInferenceNeeded)
	return s, NodeChecker, nil
}

func (m *Machine) runQuestionInterpreter(ctx context.Context, s State) (State, Node, error) {
	req, err := m.provider.QuestionInterpreter().InterpretQuestion(ctx, ai.InterpretInput{
		UserQuery:         s.effectiveQuery(),
		CurrentDate:       s.CurrentDate,
		History:           s.History,
		RetryInstructions: s.RetryInstructions,
		PriorRequest:      s.Request,
	})
	if err != nil {
		return s, nodeTerminal, &InterpretationError{Node: NodeQuestionInterpreter, Err: err}
	}

	s.RetryInstructions = ""
	s.AlternativeTried = true
	if req.AlternativeList != "" {
		s.SearchLists = append(s.SearchLists, req.AlternativeList)
	}
	if req.SearchList != "" && req.SearchList != s.Request.SearchList {
		s.SearchLists = append(s.SearchLists, req.SearchList)
	}
	m.logger.Debug("question broadened", "lists", len(s.SearchLists))
	return s, NodeChecker, nil
}

func (m *Machine) runChecker(_ context.Context, s State) (State, Node, error) {
	switch {
	case s.Request == nil:
		return s, NodeInterpreter, nil
	case s.Request.IsInferenceNeeded && !s.AlternativeTried:
		return s, NodeQuestionInterpreter, nil
	case len(s.SearchLists) > 0:
		return s, NodeConverter, nil
	case len(s.FilterSets) > 0:
		return s, NodeQueryRunner, nil
	default:
		return s, NodeLimitAndOrder, nil
	}
}

// runConverter compiles every pending symbolic list into filters. A list that
// yields no usable filters is not an error: when all lists degrade that way,
// the turn terminates on the empty-result path.
func (m *Machine) runConverter(ctx context.Context, s State) (State, Node, error) {
	lists := s.SearchLists
	s.SearchLists = nil

	compiled := 0
	for _, raw := range lists {
		filters, err := m.compiler.CompileSymbolic(ctx, raw)
		switch {
		case err == nil:
			s.FilterSets = append(s.FilterSets, filters)
			compiled++
		case errors.Is(err, query.ErrNoUsableFilters),
			errors.Is(err, query.ErrEmptySearchList):
			m.logger.Info("search list yielded no usable filters", "list", raw)
		default:
			return s, nodeTerminal, &InterpretationError{
				Node: NodeConverter,
				Err:  fmt.Errorf("search list %q is invalid: %w", raw, err),
			}
		}
	}

	if compiled == 0 && len(s.FilterSets) == 0 {
		s.NoUsableQuery = true
		return s, NodeOutput, nil
	}
	return s, NodeChecker, nil
}

// runQueryRunner executes one compiled filter set per pass, merging results
// into the accumulated match set by uid, and loops until none remain.
func (m *Machine) runQueryRunner(ctx context.Context, s State) (State, Node, error) {
	filters := s.FilterSets[0]
	s.FilterSets = s.FilterSets[1:]

	matches, err := m.engine.Run(ctx, engine.Request{
		Filters:    filters,
		Depth:      s.Request.Depth(),
		Scope:      s.Request.Scope(),
		ExcludeUID: s.ExcludeUID,
	})
	if err != nil {
		if errors.Is(err, engine.ErrNoInclusionFilters) {
			m.logger.Info("filter set had no inclusions, skipping")
		} else {
			return s, nodeTerminal, &QueryExecutionError{Err: err}
		}
	}

	seen := s.matchedUIDs()
	for _, match := range matches {
		if !seen[match.UID] {
			s.Matches = append(s.Matches, match)
			seen[match.UID] = true
		}
	}
	m.logger.Debug("filter set executed",
		"matches", len(matches), "accumulated", len(s.Matches),
		"remaining", len(s.FilterSets))

	if len(s.FilterSets) > 0 {
		return s, NodeQueryRunner, nil
	}
	return s, NodeLimitAndOrder, nil
}

func (m *Machine) runLimitAndOrder(ctx context.Context, s State) (State, Node, error) {
	period, err := s.Request.PeriodWindow()
	if err != nil {
		return s, nodeTerminal, &InterpretationError{
			Node: NodeInterpreter,
			Err:  fmt.Errorf("period has malformed dates: %w", err),
		}
	}

	limit := s.Request.NbOfResults
	if limit <= 0 {
		limit = m.cfg.DefaultResultCap
	}
	willReduce := s.Request.IsPostProcessingNeeded
	s.Matches = m.matchesInPeriod(ctx, s.Matches, period)
	s.Filtered = rankAndLimit(s.Matches, limit, m.cfg.OverFetchFactor,
		s.Request.IsRandom, willReduce)

	return s, m.routeAfterLimit(s), nil
}

// routeAfterLimit decides between direct output, preselection and synthesis
// once the candidate set is ranked.
func (m *Machine) routeAfterLimit(s State) Node {
	if len(s.Filtered) == 0 || !s.Request.IsPostProcessingNeeded {
		return NodeOutput
	}
	if len(s.Filtered) > m.cfg.PreselectionThreshold {
		return NodePreselection
	}
	return NodePostProcess
}

// runPreselection narrows a large candidate set with the relevance
// preselector. Preselection is an optimization: on failure the walk degrades
// to plain truncation instead of aborting the turn.
func (m *Machine) runPreselection(ctx context.Context, s State) (State, Node, error) {
	rendered := m.renderer.Candidates(s.Filtered)
	uids, err := m.provider.Preselector().Preselect(ctx,
		s.effectiveQuery(), rendered, m.cfg.PreselectionThreshold)
	if err != nil || len(uids) == 0 {
		if err != nil {
			m.logger.Warn("preselection failed, truncating instead", "error", err)
		}
		s.Selected = s.Filtered
		if len(s.Selected) > m.cfg.PreselectionThreshold {
			s.Selected = s.Selected[:m.cfg.PreselectionThreshold]
		}
		return s, NodePostProcess, nil
	}

	byUID := make(map[core.UID]core.MatchResult, len(s.Filtered))
	for _, r := range s.Filtered {
		byUID[r.UID] = r
	}
	s.Selected = s.Selected[:0]
	for _, uid := range uids {
		if r, ok := byUID[uid]; ok {
			s.Selected = append(s.Selected, r)
		}
	}
	if len(s.Selected) == 0 {
		s.Selected = s.Filtered[:min(len(s.Filtered), m.cfg.PreselectionThreshold)]
	}
	return s, NodePostProcess, nil
}

// runPostProcess synthesizes the final answer over the selected blocks. Like
// preselection, a synthesis failure degrades to the plain result listing.
func (m *Machine) runPostProcess(ctx context.Context, s State) (State, Node, error) {
	candidates := s.Selected
	if len(candidates) == 0 {
		candidates = s.Filtered
	}
	rendered := m.renderer.Candidates(candidates)
	answer, err := m.provider.PostProcessor().Synthesize(ctx, s.effectiveQuery(), rendered)
	if err != nil {
		m.logger.Warn("synthesis failed, falling back to result listing", "error", err)
	} else {
		if stray := strayCitations(answer, candidates); len(stray) > 0 {
			m.logger.Warn("answer cites blocks outside the candidate set", "uids", stray)
		}
		s.Answer = answer
	}
	return s, NodeOutput, nil
}

// strayCitations returns the block references in answer that do not name a
// candidate. The model is instructed to cite only what it was shown; a stray
// citation is a hallucinated reference worth surfacing in the logs.
func strayCitations(answer string, candidates []core.MatchResult) []core.UID {
	known := make(map[core.UID]bool, len(candidates))
	for _, c := range candidates {
		known[c.UID] = true
	}
	var stray []core.UID
	for _, uid := range core.BlockRefs(answer) {
		if !known[uid] {
			stray = append(stray, uid)
		}
	}
	return stray
}

// runOutput assembles the terminal outcome, paginating the display window by
// ShiftDisplay.
func (m *Machine) runOutput(s State) *Outcome {
	if s.NoUsableQuery {
		return &Outcome{
			NoUsableQuery: true,
			Empty:         true,
			Display:       "The request could not be turned into a graph search. Try naming concrete topics or pages.",
			State:         s,
		}
	}
	if len(s.Filtered) == 0 {
		return &Outcome{
			Empty:   true,
			Display: "No matching blocks were found.",
			State:   s,
		}
	}

	start := s.ShiftDisplay
	if start >= len(s.Filtered) {
		start = 0
		s.ShiftDisplay = 0
	}
	end := min(start+m.cfg.PageSize, len(s.Filtered))
	page := s.Filtered[start:end]

	display := m.renderer.Display(page)
	if s.Answer != "" {
		display = s.Answer + "\n\n" + display
	}
	// Truncated either by the display window or by the result cap itself;
	// both make a follow-up expansion meaningful.
	truncated := end < len(s.Filtered) || len(s.Filtered) < len(s.Matches)
	return &Outcome{
		Answer:    s.Answer,
		Display:   display,
		Results:   s.Filtered,
		Truncated: truncated,
		State:     s,
	}
}

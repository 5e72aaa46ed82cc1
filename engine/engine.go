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


package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/poiesic/graphseek/core"
	"github.com/poiesic/graphseek/storage"
)

// Config carries the engine's tunable cost guards. The sibling fallback
// constants guard performance, not correctness; adjust them for graph size.
type Config struct {
	// SiblingMaxFilters disables the sibling fallback when at least this
	// many inclusion filters are active.
	SiblingMaxFilters int

	// SiblingSampleCap bounds the number of candidate parent blocks the
	// sibling fallback examines.
	SiblingSampleCap int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		SiblingMaxFilters: 3,
		SiblingSampleCap:  50,
	}
}

// Request is one engine invocation: a compiled filter set plus its execution
// bounds. ExcludeUID names the block the query originated from; it and its
// ancestor path never appear in results.
type Request struct {
	Filters    []core.Filter
	Depth      core.DepthLimitation
	Scope      core.PagesLimitation
	ExcludeUID core.UID
}

// Engine executes compiled filter sets against the hierarchical block store.
// It is a pure function over its inputs: no state is retained between runs,
// and identical runs over an unchanged store yield identical result sets.
type Engine struct {
	blocks storage.BlockRepository
	cfg    Config
	logger *slog.Logger
}

// New creates a query engine over the given block store.
func New(blocks storage.BlockRepository, cfg Config) *Engine {
	if cfg.SiblingMaxFilters <= 0 {
		cfg.SiblingMaxFilters = DefaultConfig().SiblingMaxFilters
	}
	if cfg.SiblingSampleCap <= 0 {
		cfg.SiblingSampleCap = DefaultConfig().SiblingSampleCap
	}
	return &Engine{
		blocks: blocks,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-engine"),
	}
}

// compiledFilter is one inclusion filter ready to execute.
type compiledFilter struct {
	re       *regexp.Regexp
	topBlock bool
}

// Run executes the request and returns the deduplicated match set.
//
// The run proceeds in three phases: a conjunctive fast path for multi-filter
// queries without hierarchy roles, a per-filter expansion that anchors on
// blocks matching one filter and checks the remaining filters against the
// anchor's bounded-depth subtree, and a sibling fallback that finds a parent
// whose distinct children split a two-filter match between them.
func (e *Engine) Run(ctx context.Context, req Request) ([]core.MatchResult, error) {
	inclusions, exclusion, err := compileFilters(req.Filters)
	if err != nil {
		return nil, err
	}
	if len(inclusions) == 0 {
		return nil, ErrNoInclusionFilters
	}

	excluded, err := e.excludedSet(ctx, req.ExcludeUID)
	if err != nil {
		return nil, err
	}

	perFilter, allMatch, err := e.scan(ctx, req.Scope, inclusions, exclusion, excluded)
	if err != nil {
		return nil, err
	}

	acc := newAccumulator()
	hasTop := hasHierarchyRole(inclusions)

	// Full conjunctive matches are exempt from parent subsumption: a parent
	// satisfying every filter on its own content is a result in its own
	// right at any depth, not a redundant hit above a child.
	fullMatch := make(map[core.UID]bool)
	if len(inclusions) >= 2 {
		for _, b := range allMatch {
			fullMatch[b.UID] = true
		}
	}

	// Fast path: every filter on one block.
	if len(inclusions) >= 2 && !hasTop && req.Depth != core.DepthDirectChildren {
		for _, b := range allMatch {
			acc.add(b, nil)
		}
		e.logger.Debug("fast path", "matches", len(allMatch))
	}

	// Per-filter expansion. With a hierarchy role present, only the pinned
	// filter anchors; its matches are the ancestors the other side must
	// hang below.
	for i, f := range inclusions {
		if hasTop && !f.topBlock {
			continue
		}
		others := otherFilters(inclusions, i)
		candidates := dropMatchedParents(perFilter[i], fullMatch)
		for _, anchor := range candidates {
			if acc.has(anchor.UID) {
				continue
			}
			ok, samples, err := e.anchorSatisfies(ctx, anchor, others, req.Depth, exclusion, excluded)
			if err != nil {
				return nil, err
			}
			if ok {
				acc.add(anchor, samples)
			}
		}
	}

	if len(inclusions) == 2 && !hasTop &&
		len(inclusions) < e.cfg.SiblingMaxFilters &&
		req.Depth != core.DepthSameBlock {
		if err := e.siblingFallback(ctx, req, inclusions, exclusion, excluded, perFilter[0], acc); err != nil {
			return nil, err
		}
	}

	return acc.results, nil
}

// compileFilters compiles the filter set, splitting it into inclusion filters
// and the (single) exclusion regex.
func compileFilters(filters []core.Filter) ([]compiledFilter, *regexp.Regexp, error) {
	var inclusions []compiledFilter
	var exclusion *regexp.Regexp
	for _, f := range filters {
		re, err := f.Compile()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %q: %v", ErrBadFilterRegex, f.RegexString, err)
		}
		if f.IsToExclude {
			exclusion = re
			continue
		}
		inclusions = append(inclusions, compiledFilter{re: re, topBlock: f.IsTopBlockFilter})
	}
	return inclusions, exclusion, nil
}

// excludedSet collects the root block and its ancestor path.
func (e *Engine) excludedSet(ctx context.Context, root core.UID) (map[core.UID]bool, error) {
	excluded := make(map[core.UID]bool)
	if root == "" {
		return excluded, nil
	}
	excluded[root] = true
	ancestors, err := e.blocks.AncestorPath(ctx, root)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return excluded, nil
		}
		return nil, err
	}
	for _, a := range ancestors {
		excluded[a.UID] = true
	}
	return excluded, nil
}

// scan walks the store once, bucketing blocks by the inclusion filters they
// match and collecting the blocks matching every filter for the fast path.
// Scope, exclusion regex and the excluded set are applied here so later
// phases see only admissible blocks.
func (e *Engine) scan(
	ctx context.Context,
	scope core.PagesLimitation,
	inclusions []compiledFilter,
	exclusion *regexp.Regexp,
	excluded map[core.UID]bool,
) ([][]*core.Block, []*core.Block, error) {
	perFilter := make([][]*core.Block, len(inclusions))
	var allMatch []*core.Block

	err := e.blocks.ForEachBlock(ctx, func(b *core.Block) error {
		if excluded[b.UID] || !scope.Allows(b.PageTitle) {
			return nil
		}
		if exclusion != nil && exclusion.MatchString(b.Content) {
			return nil
		}
		all := true
		for i, f := range inclusions {
			if f.re.MatchString(b.Content) {
				perFilter[i] = append(perFilter[i], b)
			} else {
				all = false
			}
		}
		if all {
			allMatch = append(allMatch, b)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return perFilter, allMatch, nil
}

// anchorSatisfies checks the remaining filters against the anchor's own
// content and, depth permitting, its bounded subtree. It returns sample
// matching descendant contents for display.
func (e *Engine) anchorSatisfies(
	ctx context.Context,
	anchor *core.Block,
	others []compiledFilter,
	depth core.DepthLimitation,
	exclusion *regexp.Regexp,
	excluded map[core.UID]bool,
) (bool, []string, error) {
	if len(others) == 0 {
		return true, nil, nil
	}

	pending := make([]compiledFilter, 0, len(others))
	for _, f := range others {
		if !f.re.MatchString(anchor.Content) {
			pending = append(pending, f)
		}
	}
	if len(pending) == 0 {
		return true, nil, nil
	}
	if depth == core.DepthSameBlock {
		return false, nil, nil
	}

	descendants, err := e.blocks.Descendants(ctx, anchor.UID, traversalRule(depth))
	if err != nil {
		return false, nil, err
	}

	var samples []string
	for _, f := range pending {
		found := false
		for _, d := range descendants {
			if excluded[d.UID] {
				continue
			}
			if exclusion != nil && exclusion.MatchString(d.Content) {
				continue
			}
			if f.re.MatchString(d.Content) {
				samples = append(samples, d.Content)
				found = true
				break
			}
		}
		if !found {
			return false, nil, nil
		}
	}
	return true, samples, nil
}

// siblingFallback finds parents whose two distinct children split the two
// filters between them. Candidate parents come from the first filter's
// matches, capped to bound cost on large graphs.
func (e *Engine) siblingFallback(
	ctx context.Context,
	req Request,
	inclusions []compiledFilter,
	exclusion *regexp.Regexp,
	excluded map[core.UID]bool,
	firstMatches []*core.Block,
	acc *accumulator,
) error {
	seen := make(map[core.UID]bool)
	examined := 0
	for _, child := range firstMatches {
		if examined >= e.cfg.SiblingSampleCap {
			break
		}
		parentUID := child.ParentUID
		if parentUID == "" || seen[parentUID] || excluded[parentUID] || acc.has(parentUID) {
			continue
		}
		seen[parentUID] = true
		examined++

		siblings, err := e.blocks.ChildrenOf(ctx, parentUID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return err
		}

		first, second := matchDistinctSiblings(siblings, inclusions, exclusion)
		if first == nil || second == nil {
			continue
		}

		parent, err := e.blocks.GetBlock(ctx, parentUID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return err
		}
		if !req.Scope.Allows(parent.PageTitle) {
			continue
		}
		if exclusion != nil && exclusion.MatchString(parent.Content) {
			continue
		}
		acc.add(parent, []string{first.Content, second.Content})
	}
	return nil
}

// matchDistinctSiblings looks for two distinct children matching the two
// filters respectively. A child may match both filters, so the pairing has
// to consider every assignment, not just the first hit per filter.
func matchDistinctSiblings(siblings []*core.Block, inclusions []compiledFilter, exclusion *regexp.Regexp) (*core.Block, *core.Block) {
	var firstMatches, secondMatches []*core.Block
	for _, s := range siblings {
		if exclusion != nil && exclusion.MatchString(s.Content) {
			continue
		}
		if inclusions[0].re.MatchString(s.Content) {
			firstMatches = append(firstMatches, s)
		}
		if inclusions[1].re.MatchString(s.Content) {
			secondMatches = append(secondMatches, s)
		}
	}
	for _, first := range firstMatches {
		for _, second := range secondMatches {
			if first.UID != second.UID {
				return first, second
			}
		}
	}
	return nil, nil
}

// dropMatchedParents applies parent subsumption: when a block and its direct
// parent both match the same single filter, the parent is dropped in favor of
// the more specific child. Parents in the exempt set are kept.
func dropMatchedParents(matches []*core.Block, exempt map[core.UID]bool) []*core.Block {
	if len(matches) < 2 {
		return matches
	}
	matchedParents := make(map[core.UID]bool, len(matches))
	byUID := make(map[core.UID]bool, len(matches))
	for _, b := range matches {
		byUID[b.UID] = true
	}
	for _, b := range matches {
		if b.ParentUID != "" && byUID[b.ParentUID] && !exempt[b.ParentUID] {
			matchedParents[b.ParentUID] = true
		}
	}
	if len(matchedParents) == 0 {
		return matches
	}
	kept := make([]*core.Block, 0, len(matches))
	for _, b := range matches {
		if !matchedParents[b.UID] {
			kept = append(kept, b)
		}
	}
	return kept
}

// otherFilters returns the inclusion filters except the one at index i.
func otherFilters(inclusions []compiledFilter, i int) []compiledFilter {
	others := make([]compiledFilter, 0, len(inclusions)-1)
	others = append(others, inclusions[:i]...)
	others = append(others, inclusions[i+1:]...)
	return others
}

func hasHierarchyRole(inclusions []compiledFilter) bool {
	for _, f := range inclusions {
		if f.topBlock {
			return true
		}
	}
	return false
}

// traversalRule maps a depth limitation onto the storage traversal rule.
// DepthSameBlock never reaches here.
func traversalRule(depth core.DepthLimitation) storage.TraversalRule {
	switch depth {
	case core.DepthDirectChildren:
		return storage.TraverseDirectChildren
	case core.DepthTwoLevels:
		return storage.TraverseTwoLevels
	default:
		return storage.TraverseUnbounded
	}
}

// accumulator collects match results with identity-on-uid deduplication,
// keeping the first occurrence.
type accumulator struct {
	results []core.MatchResult
	index   map[core.UID]bool
}

func newAccumulator() *accumulator {
	return &accumulator{index: make(map[core.UID]bool)}
}

func (a *accumulator) has(uid core.UID) bool {
	return a.index[uid]
}

func (a *accumulator) add(b *core.Block, samples []string) {
	if a.index[b.UID] {
		return
	}
	a.index[b.UID] = true
	a.results = append(a.results, core.MatchResult{
		UID:                  b.UID,
		Content:              b.Content,
		EditTime:             b.EditTime,
		PageTitle:            b.PageTitle,
		ChildMatchingContent: samples,
	})
}

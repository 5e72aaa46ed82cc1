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


package query

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/poiesic/graphseek/ai"
	"github.com/poiesic/graphseek/core"
)

// Compiler turns parsed search lists into executable filter sets. Semantic
// expansion terms are gathered through the expander collaborator; pass nil to
// compile without expansion.
//
// A Compiler holds no per-query state and is safe for concurrent use.
type Compiler struct {
	expander ai.SemanticExpander
	logger   *slog.Logger
}

// NewCompiler creates a filter compiler.
func NewCompiler(expander ai.SemanticExpander) *Compiler {
	return &Compiler{
		expander: expander,
		logger:   slog.Default().With("component", "query-compiler"),
	}
}

// CompileSymbolic parses and compiles a symbolic search list in one step.
func (c *Compiler) CompileSymbolic(ctx context.Context, raw string) ([]core.Filter, error) {
	list, err := ParseSearchList(raw)
	if err != nil {
		return nil, err
	}
	return c.Compile(ctx, list)
}

// Compile converts a search list into an ordered filter set. Items that
// compile to an empty regex are dropped silently; a list reduced to zero
// usable inclusion filters returns ErrNoUsableFilters.
func (c *Compiler) Compile(ctx context.Context, list *core.SearchList) ([]core.Filter, error) {
	if err := core.ValidateSearchList(list); err != nil {
		return nil, err
	}

	filters := make([]core.Filter, 0, len(list.Items))
	inclusions := 0
	for _, item := range list.Items {
		regexStr, err := c.compileItem(ctx, item)
		if err != nil {
			return nil, err
		}
		if regexStr == "" {
			c.logger.Debug("dropping empty filter item")
			continue
		}
		if item.Negate {
			// The hierarchy role is meaningless on an exclusion.
			filters = append(filters, core.Filter{RegexString: regexStr, IsToExclude: true})
			continue
		}
		inclusions++
		filters = append(filters, core.Filter{
			RegexString:      regexStr,
			IsTopBlockFilter: item.TopBlock,
		})
	}

	if inclusions == 0 {
		return nil, ErrNoUsableFilters
	}
	if err := core.ValidateFilters(filters); err != nil {
		return nil, err
	}
	return filters, nil
}

// compileItem builds the OR-joined regex for one item.
func (c *Compiler) compileItem(ctx context.Context, item core.SearchItem) (string, error) {
	fragments := make([]string, 0, len(item.Alternatives))
	caseSensitive := false
	for _, cond := range item.Alternatives {
		frag := conditionFragment(cond)
		if frag == "" {
			continue
		}
		fragments = append(fragments, frag)
		if cond.CaseSensitive {
			caseSensitive = true
		}

		if cond.SemanticExpansion && c.expander != nil {
			variants, err := c.expander.ExpandTerm(ctx, cond.Text)
			if err != nil {
				return "", fmt.Errorf("expanding %q: %w", cond.Text, err)
			}
			for _, v := range variants {
				fragments = append(fragments, regexp.QuoteMeta(v))
			}
		}
	}

	if len(fragments) == 0 {
		return "", nil
	}
	regexStr := strings.Join(fragments, "|")
	if !caseSensitive {
		regexStr = "(?i)" + regexStr
	}
	return regexStr, nil
}

// conditionFragment builds the regex fragment for one atomic condition.
func conditionFragment(cond core.SearchCondition) string {
	text := strings.TrimSpace(cond.Text)
	if text == "" {
		return ""
	}

	switch cond.Type {
	case core.ConditionRegex:
		return text
	case core.ConditionBlockRef:
		return `\(\(` + regexp.QuoteMeta(text) + `\)\)`
	case core.ConditionPageRef:
		q := regexp.QuoteMeta(text)
		return `(?:\[\[` + q + `\]\]|#` + q + `\b|` + q + `::)`
	}

	if cond.Match == core.MatchExact {
		return `\b` + regexp.QuoteMeta(text) + `\b`
	}
	return regexp.QuoteMeta(text)
}

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
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/graphseek/core"
)

// separatorPattern turns a mid-list "- term" exclusion into its own conjunct
// so that "a + b - c" and "a - c" tokenize the same way. Hyphens inside words
// ("follow-up") are left alone; a leading "-" already starts its own item.
var separatorPattern = regexp.MustCompile(`\s-\s+`)

// itemSeparator splits conjunctive items on a spaced "+" so terms like "c++"
// survive tokenization.
var itemSeparator = regexp.MustCompile(`\s\+\s`)

// blockRefTerm matches a search term written as a block reference "((uid))".
var blockRefTerm = regexp.MustCompile(`^\(\(([\w-]{9})\)\)$`)

// pageRefTerm matches a search term written as a page reference "[[Title]]"
// or "#tag".
var pageRefTerm = regexp.MustCompile(`^(?:\[\[([^\[\]]+)\]\]|#([\w-]+))$`)

// ParseSearchList parses a symbolic search list into its structured form.
//
// Grammar: "+" joins conjunctive items, "|" joins alternatives inside one
// item, a leading "-" marks the (single) exclusion item, "~" on a term
// requests semantic expansion, "*" requests broad fuzzy expansion, quoted
// text requests exact word matching, and a single ">" or "<" splits the list
// into hierarchy sides. ".*" alone matches every block.
func ParseSearchList(raw string) (*core.SearchList, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptySearchList
	}

	leftRaw, rightRaw, op, err := splitHierarchy(raw)
	if err != nil {
		return nil, err
	}

	list := &core.SearchList{}
	// ">" pins the left side to ancestors; "<" pins the right side.
	if err := appendSide(list, leftRaw, op == '>'); err != nil {
		return nil, err
	}
	if rightRaw != "" {
		if err := appendSide(list, rightRaw, op == '<'); err != nil {
			return nil, err
		}
	}

	if err := core.ValidateSearchList(list); err != nil {
		return nil, err
	}
	return list, nil
}

// splitHierarchy splits the list on its hierarchy operator, if any. At most
// one operator is allowed.
func splitHierarchy(raw string) (left, right string, op byte, err error) {
	gt := strings.Count(raw, ">")
	lt := strings.Count(raw, "<")
	switch {
	case gt == 0 && lt == 0:
		return raw, "", 0, nil
	case gt+lt > 1:
		return "", "", 0, ErrMultipleHierarchy
	case gt == 1:
		op = '>'
	default:
		op = '<'
	}

	parts := strings.SplitN(raw, string(op), 2)
	left = strings.TrimSpace(parts[0])
	right = strings.TrimSpace(parts[1])
	if left == "" || right == "" {
		return "", "", 0, ErrEmptyHierarchySide
	}
	return left, right, op, nil
}

// appendSide parses one hierarchy side into items and appends them to the
// list, tagging each with the side's hierarchy role.
func appendSide(list *core.SearchList, raw string, topBlock bool) error {
	raw = separatorPattern.ReplaceAllString(raw, " + -")
	for _, itemRaw := range itemSeparator.Split(raw, -1) {
		itemRaw = strings.TrimSpace(itemRaw)
		if itemRaw == "" {
			continue
		}

		item := core.SearchItem{TopBlock: topBlock}
		if strings.HasPrefix(itemRaw, "-") {
			item.Negate = true
			itemRaw = strings.TrimSpace(strings.TrimPrefix(itemRaw, "-"))
		}

		for _, altRaw := range strings.Split(itemRaw, "|") {
			cond, ok := parseCondition(altRaw)
			if ok {
				item.Alternatives = append(item.Alternatives, cond)
			}
		}
		if len(item.Alternatives) == 0 {
			return fmt.Errorf("%w: %q", core.ErrEmptyItem, itemRaw)
		}
		list.Items = append(list.Items, item)
	}
	return nil
}

// parseCondition parses one OR-alternative into an atomic condition.
func parseCondition(raw string) (core.SearchCondition, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return core.SearchCondition{}, false
	}

	if raw == ".*" {
		return core.SearchCondition{
			Text:  ".*",
			Type:  core.ConditionRegex,
			Match: core.MatchRegex,
		}, true
	}

	cond := core.SearchCondition{Type: core.ConditionText, Match: core.MatchContains}

	// Expansion markers are accepted on either end of the term.
	for {
		switch {
		case strings.HasPrefix(raw, "~"), strings.HasPrefix(raw, "*"):
			cond.SemanticExpansion = true
			raw = raw[1:]
			continue
		case strings.HasSuffix(raw, "~"), strings.HasSuffix(raw, "*"):
			cond.SemanticExpansion = true
			raw = raw[:len(raw)-1]
			continue
		}
		break
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return core.SearchCondition{}, false
	}

	if strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) && len(raw) > 1 {
		raw = strings.Trim(raw, `"`)
		if raw == "" {
			return core.SearchCondition{}, false
		}
		cond.Text = raw
		cond.Match = core.MatchExact
		cond.CaseSensitive = true
		// Exact terms are matched literally; expansion would defeat them.
		cond.SemanticExpansion = false
		return cond, true
	}

	if m := blockRefTerm.FindStringSubmatch(raw); m != nil {
		cond.Text = m[1]
		cond.Type = core.ConditionBlockRef
		cond.SemanticExpansion = false
		return cond, true
	}

	if m := pageRefTerm.FindStringSubmatch(raw); m != nil {
		title := m[1]
		if title == "" {
			title = m[2]
		}
		cond.Text = title
		cond.Type = core.ConditionPageRef
		return cond, true
	}

	cond.Text = raw
	return cond, true
}

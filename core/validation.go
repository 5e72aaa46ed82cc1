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


package core

import (
	"fmt"
)

// ValidateBlock validates a Block according to domain rules.
//
// Validation rules:
//   - UID must be present
//   - PageUID must be present
//   - a block must not be its own parent
//
// NOT validated:
//   - Content (empty blocks are legal in the source graph)
//   - ChildrenUIDs (populated lazily during import)
func ValidateBlock(block *Block) error {
	if block == nil {
		return fmt.Errorf("%w: block is nil", ErrInvalidBlock)
	}

	if block.UID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidBlock, ErrInvalidUID)
	}

	if block.PageUID == "" {
		return fmt.Errorf("%w: missing page uid", ErrInvalidBlock)
	}

	if block.ParentUID == block.UID {
		return fmt.Errorf("%w: block %q is its own parent", ErrInvalidBlock, block.UID)
	}

	return nil
}

// ValidatePage validates a Page according to domain rules.
func ValidatePage(page *Page) error {
	if page == nil {
		return fmt.Errorf("%w: page is nil", ErrInvalidPage)
	}

	if page.UID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPage, ErrInvalidUID)
	}

	if page.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPage, ErrEmptyTitle)
	}

	return nil
}

// ValidateSearchList validates a SearchList according to the search grammar.
//
// Validation rules:
//   - at most MaxSearchItems conjunctive items
//   - at most one negated item
//   - every item carries at least one alternative
//   - a bare ".*" alternative cannot share an item with another condition
func ValidateSearchList(list *SearchList) error {
	if list == nil || len(list.Items) == 0 {
		return fmt.Errorf("%w: empty list", ErrInvalidSearchList)
	}

	if len(list.Items) > MaxSearchItems {
		return fmt.Errorf("%w: %w (%d > %d)", ErrInvalidSearchList, ErrTooManyItems,
			len(list.Items), MaxSearchItems)
	}

	negations := 0
	for _, item := range list.Items {
		if len(item.Alternatives) == 0 {
			return fmt.Errorf("%w: %w", ErrInvalidSearchList, ErrEmptyItem)
		}
		if item.Negate {
			negations++
		}
		if hasBareWildcard(item) && len(item.Alternatives) > 1 {
			return fmt.Errorf("%w: %w", ErrInvalidSearchList, ErrBareWildcardWithCondition)
		}
	}

	if negations > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidSearchList, ErrMultipleExclusions)
	}

	return nil
}

// ValidateFilters validates a compiled filter set.
//
// Validation rules:
//   - at most one filter may carry IsToExclude
//   - every filter's regex must compile
func ValidateFilters(filters []Filter) error {
	exclusions := 0
	for _, f := range filters {
		if f.IsToExclude {
			exclusions++
		}
		if _, err := f.Compile(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSearchList, err)
		}
	}
	if exclusions > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidSearchList, ErrMultipleExclusions)
	}
	return nil
}

func hasBareWildcard(item SearchItem) bool {
	for _, alt := range item.Alternatives {
		if alt.Text == ".*" {
			return true
		}
	}
	return false
}

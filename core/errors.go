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

import "errors"

// Domain validation errors
var (
	// ErrInvalidBlock indicates a Block failed validation.
	ErrInvalidBlock = errors.New("invalid block")

	// ErrInvalidPage indicates a Page failed validation.
	ErrInvalidPage = errors.New("invalid page")

	// ErrInvalidUID indicates a UID is empty or malformed.
	ErrInvalidUID = errors.New("invalid uid")

	// ErrEmptyTitle indicates the page Title field is empty.
	ErrEmptyTitle = errors.New("page title cannot be empty")

	// ErrInvalidSearchList indicates a SearchList failed validation.
	ErrInvalidSearchList = errors.New("invalid search list")

	// ErrTooManyItems indicates a search list exceeds the conjunct cap.
	ErrTooManyItems = errors.New("too many conjunctive items")

	// ErrMultipleExclusions indicates more than one negated item or filter.
	ErrMultipleExclusions = errors.New("at most one exclusion allowed")

	// ErrEmptyItem indicates a search item carries no alternatives.
	ErrEmptyItem = errors.New("search item has no alternatives")

	// ErrBareWildcardWithCondition indicates ".*" was combined with another
	// condition on the same hierarchy side.
	ErrBareWildcardWithCondition = errors.New(`".*" cannot be combined with another condition`)
)

package engine

import "errors"

var (
	// ErrNoInclusionFilters indicates a request whose filter set contains
	// no inclusion filter to execute.
	ErrNoInclusionFilters = errors.New("no inclusion filters to execute")

	// ErrBadFilterRegex indicates a filter whose regex does not compile.
	ErrBadFilterRegex = errors.New("filter regex does not compile")
)

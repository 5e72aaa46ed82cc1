package query

import "errors"

var (
	// ErrEmptySearchList indicates the symbolic search list contained no
	// items at all.
	ErrEmptySearchList = errors.New("empty search list")

	// ErrMultipleHierarchy indicates more than one hierarchy operator in a
	// single search list.
	ErrMultipleHierarchy = errors.New("search list contains more than one hierarchy operator")

	// ErrEmptyHierarchySide indicates a hierarchy operator with nothing on
	// one side, e.g. "todo >".
	ErrEmptyHierarchySide = errors.New("hierarchy operator missing a side")

	// ErrNoUsableFilters indicates every item of a search list compiled to
	// an empty regex, leaving no executable query.
	ErrNoUsableFilters = errors.New("search list compiled to no usable filters")
)

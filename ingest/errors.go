package ingest

import "errors"

var (
	// ErrBlockRepositoryRequired is returned when a block repository is not provided.
	ErrBlockRepositoryRequired = errors.New("block repository required")

	// ErrPageRepositoryRequired is returned when a page repository is not provided.
	ErrPageRepositoryRequired = errors.New("page repository required")

	// ErrMalformedExport is returned when the export JSON cannot be decoded
	// into the expected page/block shape.
	ErrMalformedExport = errors.New("malformed graph export")
)

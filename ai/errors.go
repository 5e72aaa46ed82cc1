package ai

import "errors"

var (
	// ErrUnparsedOutput indicates the model returned text that could not be
	// parsed into the expected schema after all repair attempts.
	ErrUnparsedOutput = errors.New("model output could not be parsed")

	// ErrEmptySearchList indicates the interpreter produced no usable
	// search list for the request.
	ErrEmptySearchList = errors.New("interpreter returned empty search list")
)

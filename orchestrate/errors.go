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
	"errors"
	"fmt"
)

var (
	// ErrCancelled is the distinct outcome of a user-triggered abort. It is
	// not a failure: callers render a neutral cancelled notice, never an
	// error display, and never retry.
	ErrCancelled = errors.New("search cancelled")

	// ErrChoiceTimeout is returned when a suspended turn waits longer than
	// the configured bound for a user decision.
	ErrChoiceTimeout = errors.New("timed out waiting for user choice")

	// ErrResumeInFlight is returned when a resumption is attempted while
	// another one for the same conversation has not finished.
	ErrResumeInFlight = errors.New("a resumption is already in flight for this conversation")

	// ErrUnknownContinuation is returned when a resume token does not match
	// any suspended turn.
	ErrUnknownContinuation = errors.New("unknown continuation token")
)

// InterpretationError marks a failed NL-interpretation or filter-compilation
// step. It is retried once at the same node before escalating.
type InterpretationError struct {
	Node Node
	Err  error
}

func (e *InterpretationError) Error() string {
	return fmt.Sprintf("interpretation failed at %s: %v", e.Node, e.Err)
}

func (e *InterpretationError) Unwrap() error {
	return e.Err
}

// QueryExecutionError marks a failed traversal or filter query. It is never
// retried; the turn terminates with this error.
type QueryExecutionError struct {
	Err error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("query execution failed: %v", e.Err)
}

func (e *QueryExecutionError) Unwrap() error {
	return e.Err
}

package mock

import (
	"context"
	"fmt"
)

// MockPostProcessor is a test double for ai.PostProcessor.
// It allows custom behavior injection via function fields.
type MockPostProcessor struct {
	// SynthesizeFunc is called by Synthesize if set.
	// If nil, returns a canned answer citing the first rendered uid.
	SynthesizeFunc func(ctx context.Context, userQuery, rendered string) (string, error)

	callCount int
}

// NewMockPostProcessor creates a mock post-processor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockPostProcessor().
func NewMockPostProcessor() *MockPostProcessor {
	return &MockPostProcessor{}
}

// Synthesize returns a deterministic answer.
// Default behavior: echoes the question and cites the first uid found in the
// rendering via embed syntax.
func (m *MockPostProcessor) Synthesize(ctx context.Context, userQuery, rendered string) (string, error) {
	m.callCount++

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, userQuery, rendered)
	}

	if match := renderedUIDPattern.FindStringSubmatch(rendered); match != nil {
		return fmt.Sprintf("Answer to %q: see {{[[embed-path]]: ((%s))}}", userQuery, match[1]), nil
	}
	return fmt.Sprintf("No supporting notes found for %q.", userQuery), nil
}

// CallCount returns the number of times Synthesize was called.
func (m *MockPostProcessor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockPostProcessor) Reset() {
	m.callCount = 0
	m.SynthesizeFunc = nil
}

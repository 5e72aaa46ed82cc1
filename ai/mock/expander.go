package mock

import (
	"context"
	"strings"
)

// MockExpander is a test double for ai.SemanticExpander.
// It allows custom behavior injection via function fields.
type MockExpander struct {
	// ExpandTermFunc is called by ExpandTerm if set.
	// If nil, uses default inflection-based variants.
	ExpandTermFunc func(ctx context.Context, term string) ([]string, error)

	callCount int
}

// NewMockExpander creates a mock expander with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExpander().
func NewMockExpander() *MockExpander {
	return &MockExpander{}
}

// ExpandTerm returns deterministic variants for the term.
// Default behavior: a plural and an "-ing" form of the term.
func (m *MockExpander) ExpandTerm(ctx context.Context, term string) ([]string, error) {
	m.callCount++

	if m.ExpandTermFunc != nil {
		return m.ExpandTermFunc(ctx, term)
	}

	term = strings.TrimSpace(term)
	if term == "" {
		return []string{}, nil
	}
	return []string{term + "s", term + "ing"}, nil
}

// CallCount returns the number of times ExpandTerm was called.
func (m *MockExpander) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockExpander) Reset() {
	m.callCount = 0
	m.ExpandTermFunc = nil
}

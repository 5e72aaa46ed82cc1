package mock

import (
	"context"
	"strings"

	"github.com/poiesic/graphseek/ai"
)

// MockInterpreter is a test double for ai.QueryInterpreter and
// ai.QuestionInterpreter. It allows custom behavior injection via function
// fields.
type MockInterpreter struct {
	// InterpretQueryFunc is called by InterpretQuery if set.
	// If nil, uses default keyword extraction.
	InterpretQueryFunc func(ctx context.Context, req ai.InterpretInput) (*ai.InterpretedRequest, error)

	// InterpretQuestionFunc is called by InterpretQuestion if set.
	// If nil, uses default broadening.
	InterpretQuestionFunc func(ctx context.Context, req ai.InterpretInput) (*ai.InterpretedRequest, error)

	queryCallCount    int
	questionCallCount int
}

// NewMockInterpreter creates a mock interpreter with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockInterpreter().
func NewMockInterpreter() *MockInterpreter {
	return &MockInterpreter{}
}

// InterpretQuery builds a naive structured request from the query.
// Default behavior: joins the first three words longer than three characters
// with "+".
func (m *MockInterpreter) InterpretQuery(ctx context.Context, req ai.InterpretInput) (*ai.InterpretedRequest, error) {
	m.queryCallCount++

	if m.InterpretQueryFunc != nil {
		return m.InterpretQueryFunc(ctx, req)
	}

	terms := make([]string, 0, 3)
	for _, word := range strings.Fields(strings.ToLower(req.UserQuery)) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if len(word) <= 3 {
			continue
		}
		terms = append(terms, word)
		if len(terms) == 3 {
			break
		}
	}
	if len(terms) == 0 {
		terms = []string{".*"}
	}

	return &ai.InterpretedRequest{
		SearchList: strings.Join(terms, " + "),
	}, nil
}

// InterpretQuestion broadens a request.
// Default behavior: turns the prior request's AND chain into an OR group with
// expansion markers and stores it as the alternative list.
func (m *MockInterpreter) InterpretQuestion(ctx context.Context, req ai.InterpretInput) (*ai.InterpretedRequest, error) {
	m.questionCallCount++

	if m.InterpretQuestionFunc != nil {
		return m.InterpretQuestionFunc(ctx, req)
	}

	result := &ai.InterpretedRequest{IsInferenceNeeded: true}
	if req.PriorRequest != nil {
		*result = *req.PriorRequest
	}
	base := result.SearchList
	if base == "" {
		base = strings.Join(strings.Fields(strings.ToLower(req.UserQuery)), "|")
	}
	terms := strings.Split(base, "+")
	for i, t := range terms {
		terms[i] = "~" + strings.TrimSpace(t)
	}
	result.AlternativeList = strings.Join(terms, "|")
	return result, nil
}

// QueryCallCount returns the number of times InterpretQuery was called.
func (m *MockInterpreter) QueryCallCount() int {
	return m.queryCallCount
}

// QuestionCallCount returns the number of times InterpretQuestion was called.
func (m *MockInterpreter) QuestionCallCount() int {
	return m.questionCallCount
}

// Reset clears the call counts and custom functions.
func (m *MockInterpreter) Reset() {
	m.queryCallCount = 0
	m.questionCallCount = 0
	m.InterpretQueryFunc = nil
	m.InterpretQuestionFunc = nil
}

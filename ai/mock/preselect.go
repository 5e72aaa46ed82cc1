package mock

import (
	"context"
	"regexp"

	"github.com/poiesic/graphseek/core"
)

var renderedUIDPattern = regexp.MustCompile(`\(\(([^()]+)\)\)`)

// MockPreselector is a test double for ai.Preselector.
// It allows custom behavior injection via function fields.
type MockPreselector struct {
	// PreselectFunc is called by Preselect if set.
	// If nil, returns the first uids found in the rendering.
	PreselectFunc func(ctx context.Context, userQuery, rendered string, limit int) ([]core.UID, error)

	callCount int
}

// NewMockPreselector creates a mock preselector with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockPreselector().
func NewMockPreselector() *MockPreselector {
	return &MockPreselector{}
}

// Preselect returns uids from the candidate rendering.
// Default behavior: scans the rendering for ((uid)) markers and returns the
// first limit distinct uids in order of appearance.
func (m *MockPreselector) Preselect(ctx context.Context, userQuery, rendered string, limit int) ([]core.UID, error) {
	m.callCount++

	if m.PreselectFunc != nil {
		return m.PreselectFunc(ctx, userQuery, rendered, limit)
	}

	uids := make([]core.UID, 0, limit)
	seen := make(map[string]bool)
	for _, match := range renderedUIDPattern.FindAllStringSubmatch(rendered, -1) {
		if seen[match[1]] {
			continue
		}
		seen[match[1]] = true
		uids = append(uids, core.UID(match[1]))
		if len(uids) >= limit {
			break
		}
	}
	return uids, nil
}

// CallCount returns the number of times Preselect was called.
func (m *MockPreselector) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockPreselector) Reset() {
	m.callCount = 0
	m.PreselectFunc = nil
}

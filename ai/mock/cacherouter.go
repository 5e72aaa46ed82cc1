package mock

import (
	"context"

	"github.com/poiesic/graphseek/ai"
)

// MockCacheRouter is a test double for ai.CacheRouter.
// It allows custom behavior injection via function fields.
type MockCacheRouter struct {
	// RouteCacheFunc is called by RouteCache if set.
	// If nil, always routes to a fresh search.
	RouteCacheFunc func(ctx context.Context, req ai.CacheRouteInput) (*ai.CacheDecision, error)

	callCount int
}

// NewMockCacheRouter creates a mock cache router with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockCacheRouter().
func NewMockCacheRouter() *MockCacheRouter {
	return &MockCacheRouter{}
}

// RouteCache returns the reuse decision.
// Default behavior: always a fresh search, matching the conservative choice
// production makes when nothing useful is cached.
func (m *MockCacheRouter) RouteCache(ctx context.Context, req ai.CacheRouteInput) (*ai.CacheDecision, error) {
	m.callCount++

	if m.RouteCacheFunc != nil {
		return m.RouteCacheFunc(ctx, req)
	}

	return &ai.CacheDecision{Action: ai.ActionNewSearch}, nil
}

// CallCount returns the number of times RouteCache was called.
func (m *MockCacheRouter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom function.
func (m *MockCacheRouter) Reset() {
	m.callCount = 0
	m.RouteCacheFunc = nil
}

// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.QueryInterpreter,
// ai.SemanticExpander, ai.Preselector, ai.PostProcessor, ai.CacheRouter and
// ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic
// behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	req, err := mockProvider.QueryInterpreter().InterpretQuery(ctx, ai.InterpretInput{
//	    UserQuery: "notes about travel",
//	})
//
//	// Custom behavior injection
//	mockInterp := mock.NewMockInterpreter()
//	mockInterp.InterpretQueryFunc = func(ctx context.Context, req ai.InterpretInput) (*ai.InterpretedRequest, error) {
//	    return &ai.InterpretedRequest{SearchList: "travel|trip"}, nil
//	}
//
//	// Check call counts
//	count := mockInterp.QueryCallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockInterpreter: Builds a search list from significant query words
//   - MockExpander: Returns plural and gerund variants of the term
//   - MockPreselector: Returns the first uids found in the rendering
//   - MockPostProcessor: Cites the first rendered uid via embed syntax
//   - MockCacheRouter: Always routes to a fresh search
package mock

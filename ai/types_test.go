package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/graphseek/core"
)

func intPtr(v int) *int { return &v }

func TestInterpretedRequestValidate(t *testing.T) {
	t.Run("minimal request is valid", func(t *testing.T) {
		req := &InterpretedRequest{SearchList: "travel"}
		require.NoError(t, req.Validate())
	})

	t.Run("rejects empty search list", func(t *testing.T) {
		req := &InterpretedRequest{}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects out of range depth", func(t *testing.T) {
		req := &InterpretedRequest{SearchList: "a", DepthLimitation: intPtr(3)}
		assert.Error(t, req.Validate())
	})

	t.Run("accepts valid depth values", func(t *testing.T) {
		for _, d := range []int{0, 1, 2} {
			req := &InterpretedRequest{SearchList: "a", DepthLimitation: intPtr(d)}
			require.NoError(t, req.Validate())
		}
	})

	t.Run("rejects malformed period bound", func(t *testing.T) {
		req := &InterpretedRequest{SearchList: "a", Period: &PeriodRange{Begin: "last week"}}
		assert.Error(t, req.Validate())
	})

	t.Run("accepts open-ended period", func(t *testing.T) {
		req := &InterpretedRequest{SearchList: "a", Period: &PeriodRange{End: "2026-08-28"}}
		require.NoError(t, req.Validate())
	})
}

func TestInterpretedRequestDepth(t *testing.T) {
	assert.Equal(t, core.DepthUnbounded, (&InterpretedRequest{}).Depth())
	assert.Equal(t, core.DepthSameBlock, (&InterpretedRequest{DepthLimitation: intPtr(0)}).Depth())
	assert.Equal(t, core.DepthDirectChildren, (&InterpretedRequest{DepthLimitation: intPtr(1)}).Depth())
	assert.Equal(t, core.DepthTwoLevels, (&InterpretedRequest{DepthLimitation: intPtr(2)}).Depth())
}

func TestInterpretedRequestScope(t *testing.T) {
	assert.Equal(t, core.ScopeAllPages, (&InterpretedRequest{}).Scope().Kind)
	assert.Equal(t, core.ScopeDailyPages, (&InterpretedRequest{PagesLimitation: "dnp"}).Scope().Kind)

	scope := (&InterpretedRequest{PagesLimitation: "Project"}).Scope()
	assert.Equal(t, core.ScopeTitlePattern, scope.Kind)
	assert.Equal(t, "Project", scope.TitlePattern)
}

func TestInterpretedRequestPeriodWindow(t *testing.T) {
	t.Run("no period yields zero window", func(t *testing.T) {
		window, err := (&InterpretedRequest{}).PeriodWindow()
		require.NoError(t, err)
		assert.True(t, window.Begin.IsZero())
		assert.True(t, window.End.IsZero())
	})

	t.Run("parses both bounds", func(t *testing.T) {
		req := &InterpretedRequest{Period: &PeriodRange{Begin: "2026-08-01", End: "2026-08-28"}}
		window, err := req.PeriodWindow()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), window.Begin)
		assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), window.End)
	})
}

func TestModelOutputResolve(t *testing.T) {
	t.Run("parsed output resolves", func(t *testing.T) {
		out := ModelOutput{Kind: OutputParsed, Parsed: &InterpretedRequest{SearchList: "a"}}
		req, err := out.Resolve()
		require.NoError(t, err)
		assert.Equal(t, "a", req.SearchList)
	})

	t.Run("raw output fails with sentinel", func(t *testing.T) {
		out := ModelOutput{Kind: OutputRaw, Raw: "not json"}
		_, err := out.Resolve()
		assert.ErrorIs(t, err, ErrUnparsedOutput)
	})
}

package orchestrate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/graphseek/ai"
)

func TestResumeShowMorePagesThroughResults(t *testing.T) {
	m, _ := newTestMachine(t, Config{PageSize: 2})
	o := NewOrchestrator(m, m.provider, 0)
	conv := NewConversation()

	first, err := o.RunTurn(context.Background(), conv, "sugar note")
	require.NoError(t, err)
	require.Len(t, first.Results, 5)
	require.True(t, first.Truncated)
	require.NotEmpty(t, first.ContinuationID)

	second, err := o.Resume(context.Background(), first.ContinuationID, ResumeShowMore)
	require.NoError(t, err)
	assert.NotEqual(t, first.Display, second.Display, "the window advanced")
	require.NotEmpty(t, second.ContinuationID)

	third, err := o.Resume(context.Background(), second.ContinuationID, ResumeShowMore)
	require.NoError(t, err)
	assert.False(t, third.Truncated, "the last page closes the choice window")
	assert.Empty(t, third.ContinuationID)

	_, err = o.Resume(context.Background(), first.ContinuationID, ResumeShowMore)
	assert.ErrorIs(t, err, ErrUnknownContinuation,
		"a consumed token is no longer redeemable")
}

func TestResumeExpandLiftsTheResultCap(t *testing.T) {
	m, provider := newTestMachine(t, Config{})
	o := NewOrchestrator(m, m.provider, 0)
	conv := NewConversation()

	provider.GetMockInterpreter().InterpretQueryFunc = func(ctx context.Context, req ai.InterpretInput) (*ai.InterpretedRequest, error) {
		return &ai.InterpretedRequest{SearchList: "sugar", NbOfResults: 2}, nil
	}

	first, err := o.RunTurn(context.Background(), conv, "two sugar notes")
	require.NoError(t, err)
	require.Len(t, first.Results, 2)
	require.True(t, first.Truncated, "the cap left matches unshown")
	require.NotEmpty(t, first.ContinuationID)

	expanded, err := o.Resume(context.Background(), first.ContinuationID, ResumeExpand)
	require.NoError(t, err)

	assert.Greater(t, len(expanded.Results), 2, "expansion lifted the cap")
	assert.Equal(t, 1, conv.ExpansionLevel)
	assert.Equal(t, 2, first.State.Request.NbOfResults,
		"lifting the cap must not reach back into the suspended outcome")
}

func TestResumeUnknownToken(t *testing.T) {
	m, _ := newTestMachine(t, Config{})
	o := NewOrchestrator(m, m.provider, 0)

	_, err := o.Resume(context.Background(), "no-such-token", ResumeShowMore)
	assert.ErrorIs(t, err, ErrUnknownContinuation)
}

func TestResumeChoiceTimeout(t *testing.T) {
	m, _ := newTestMachine(t, Config{PageSize: 2})
	o := NewOrchestrator(m, m.provider, time.Nanosecond)
	conv := NewConversation()

	first, err := o.RunTurn(context.Background(), conv, "sugar note")
	require.NoError(t, err)
	require.NotEmpty(t, first.ContinuationID)

	time.Sleep(time.Millisecond)

	_, err = o.Resume(context.Background(), first.ContinuationID, ResumeShowMore)
	assert.ErrorIs(t, err, ErrChoiceTimeout)

	_, err = o.Resume(context.Background(), first.ContinuationID, ResumeShowMore)
	assert.ErrorIs(t, err, ErrUnknownContinuation,
		"an expired token is discarded")
}

func TestResumeRejectsConcurrentResumption(t *testing.T) {
	m, _ := newTestMachine(t, Config{PageSize: 2})
	o := NewOrchestrator(m, m.provider, 0)
	conv := NewConversation()

	first, err := o.RunTurn(context.Background(), conv, "sugar note")
	require.NoError(t, err)
	require.NotEmpty(t, first.ContinuationID)

	conv.resuming.Store(true)
	_, err = o.Resume(context.Background(), first.ContinuationID, ResumeShowMore)
	assert.ErrorIs(t, err, ErrResumeInFlight)
	conv.resuming.Store(false)

	_, err = o.Resume(context.Background(), first.ContinuationID, ResumeShowMore)
	require.NoError(t, err)
}

func TestResumeRejectsUnknownDecision(t *testing.T) {
	m, _ := newTestMachine(t, Config{PageSize: 2})
	o := NewOrchestrator(m, m.provider, 0)
	conv := NewConversation()

	first, err := o.RunTurn(context.Background(), conv, "sugar note")
	require.NoError(t, err)
	require.NotEmpty(t, first.ContinuationID)

	_, err = o.Resume(context.Background(), first.ContinuationID, ResumeDecision("bogus"))
	assert.ErrorIs(t, err, ErrUnknownContinuation)
}

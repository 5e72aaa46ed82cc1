package orchestrate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/graphseek/core"
)

func day(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func matchAt(uid string, edited time.Time) core.MatchResult {
	return core.MatchResult{UID: core.UID(uid), Content: uid, EditTime: edited}
}

func TestFilterPeriodBoundaries(t *testing.T) {
	period := core.Period{
		Begin: day("2026-08-20T00:00:00Z"),
		End:   day("2026-08-26T00:00:00Z"),
	}
	matches := []core.MatchResult{
		matchAt("before", day("2026-08-19T23:59:59Z")),
		matchAt("onBegin", day("2026-08-20T00:00:00Z")),
		matchAt("lastSecond", day("2026-08-26T23:59:59Z")),
		matchAt("after", day("2026-08-27T00:00:01Z")),
	}

	kept := filterPeriod(matches, period)

	uids := make([]core.UID, 0, len(kept))
	for _, m := range kept {
		uids = append(uids, m.UID)
	}
	// The end date is inclusive of its whole day.
	assert.Equal(t, []core.UID{"onBegin", "lastSecond"}, uids)
}

func TestFilterPeriodKeepsUndatedBlocks(t *testing.T) {
	period := core.Period{Begin: day("2026-08-20T00:00:00Z"), End: day("2026-08-26T00:00:00Z")}
	matches := []core.MatchResult{
		matchAt("undated", time.Time{}),
		matchAt("outside", day("2026-09-01T12:00:00Z")),
	}

	kept := filterPeriod(matches, period)

	assert.Len(t, kept, 1)
	assert.Equal(t, core.UID("undated"), kept[0].UID)
}

func TestFilterPeriodNoopWithoutPeriod(t *testing.T) {
	matches := []core.MatchResult{matchAt("a", day("2026-08-01T00:00:00Z"))}
	assert.Equal(t, matches, filterPeriod(matches, core.Period{}))
}

func TestRankAndLimitOrdersByRecency(t *testing.T) {
	base := day("2026-08-20T12:00:00Z")
	matches := []core.MatchResult{
		matchAt("middle", base.Add(-time.Hour)),
		matchAt("newest", base),
		matchAt("oldest", base.Add(-2*time.Hour)),
	}

	ranked := rankAndLimit(matches, 2, 3, false, false)

	assert.Len(t, ranked, 2)
	assert.Equal(t, core.UID("newest"), ranked[0].UID)
	assert.Equal(t, core.UID("middle"), ranked[1].UID)
	// The input slice is left as it was.
	assert.Equal(t, core.UID("middle"), matches[0].UID)
}

func TestRankAndLimitWidensWindowBeforeReduction(t *testing.T) {
	base := day("2026-08-20T12:00:00Z")
	var matches []core.MatchResult
	for i := 0; i < 10; i++ {
		matches = append(matches, matchAt(string(rune('a'+i)), base.Add(-time.Duration(i)*time.Minute)))
	}

	plain := rankAndLimit(matches, 2, 3, false, false)
	widened := rankAndLimit(matches, 2, 3, false, true)

	assert.Len(t, plain, 2)
	assert.Len(t, widened, 6)
}

func TestRankAndLimitRandomKeepsWindowSize(t *testing.T) {
	base := day("2026-08-20T12:00:00Z")
	var matches []core.MatchResult
	for i := 0; i < 10; i++ {
		matches = append(matches, matchAt(string(rune('a'+i)), base.Add(-time.Duration(i)*time.Minute)))
	}

	sampled := rankAndLimit(matches, 4, 3, true, false)

	assert.Len(t, sampled, 4)
	seen := map[core.UID]bool{}
	for _, m := range sampled {
		assert.False(t, seen[m.UID])
		seen[m.UID] = true
	}
}

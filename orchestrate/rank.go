package orchestrate

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/poiesic/graphseek/core"
)

// matchesInPeriod restricts matches to the requested period. With both bounds
// set it resolves the edited-in-range set through the repository's edit-time
// index; open-ended periods and index failures fall back to the in-memory
// edit times the matches already carry.
func (m *Machine) matchesInPeriod(ctx context.Context, matches []core.MatchResult, period core.Period) []core.MatchResult {
	if period.IsZero() || len(matches) == 0 {
		return matches
	}
	if m.blocks == nil || period.Begin.IsZero() || period.End.IsZero() {
		return filterPeriod(matches, period)
	}

	// Same window as core.Period.Contains: begin-of-day to end-of-day,
	// mapped onto the index's half-open [start, end) range.
	start := period.Begin.Truncate(24 * time.Hour)
	end := period.End.Truncate(24 * time.Hour).Add(24 * time.Hour)
	edited, err := m.blocks.BlocksEditedBetween(ctx, start, end)
	if err != nil {
		m.logger.Warn("edit-time index lookup failed, filtering in memory", "error", err)
		return filterPeriod(matches, period)
	}

	inRange := make(map[core.UID]bool, len(edited))
	for _, b := range edited {
		inRange[b.UID] = true
	}
	kept := make([]core.MatchResult, 0, len(matches))
	for _, match := range matches {
		if match.EditTime.IsZero() || inRange[match.UID] {
			kept = append(kept, match)
		}
	}
	return kept
}

// filterPeriod keeps the matches whose edit time falls inside the period.
// Blocks without an edit time are kept: the source graph has imports that
// carry none, and dropping them would silently hide content.
func filterPeriod(matches []core.MatchResult, period core.Period) []core.MatchResult {
	if period.IsZero() {
		return matches
	}
	kept := make([]core.MatchResult, 0, len(matches))
	for _, m := range matches {
		if m.EditTime.IsZero() || period.Contains(m.EditTime) {
			kept = append(kept, m)
		}
	}
	return kept
}

// rankAndLimit orders matches newest first (or shuffles them for a random
// request) and caps the list. When a later reduction stage (preselection or
// synthesis) will narrow the set further, the cap is widened by overFetch so
// that stage has material to choose from.
func rankAndLimit(matches []core.MatchResult, limit, overFetch int, random bool, willReduce bool) []core.MatchResult {
	kept := make([]core.MatchResult, len(matches))
	copy(kept, matches)

	if random {
		rand.Shuffle(len(kept), func(i, j int) {
			kept[i], kept[j] = kept[j], kept[i]
		})
	} else {
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].EditTime.After(kept[j].EditTime)
		})
	}

	window := limit
	if willReduce {
		window = limit * overFetch
	}
	if window > 0 && len(kept) > window {
		kept = kept[:window]
	}
	return kept
}

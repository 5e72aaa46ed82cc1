// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package orchestrate

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/graphseek/ai"
	"github.com/poiesic/graphseek/core"
)

// EntryStatus is the lifecycle tag of a cached result set.
type EntryStatus int

const (
	// StatusActive marks an entry usable for answering follow-ups.
	StatusActive EntryStatus = iota + 1
	// StatusSuperseded marks an entry replaced by a newer equivalent
	// search. Superseded entries are kept for audit, never served.
	StatusSuperseded
)

// ResultEntry is one cached result set.
type ResultEntry struct {
	ID        string
	ToolName  string
	UserQuery string
	Results   []core.MatchResult
	Timestamp time.Time
	CanExpand bool
	Status    EntryStatus
}

// DefaultStoreCap bounds the result store size per conversation.
const DefaultStoreCap = 16

// ResultStore is the bounded per-conversation cache of result sets. Entries
// are never deleted proactively; newer equivalent searches supersede older
// ones, and only the size cap evicts (oldest superseded first).
//
// The store is owned exclusively by the orchestration layer for the duration
// of one turn and is not safe for concurrent use.
type ResultStore struct {
	entries []*ResultEntry
	cap     int
}

// NewResultStore creates a store with the given entry cap (0 uses the
// default).
func NewResultStore(cap int) *ResultStore {
	if cap <= 0 {
		cap = DefaultStoreCap
	}
	return &ResultStore{cap: cap}
}

// Add records a fresh result set, superseding older active entries produced
// by the same tool.
func (s *ResultStore) Add(toolName, userQuery string, results []core.MatchResult, canExpand bool) *ResultEntry {
	now := time.Now()
	for _, e := range s.entries {
		if e.ToolName == toolName && e.Status == StatusActive {
			e.Status = StatusSuperseded
		}
	}

	entry := &ResultEntry{
		ID:        fmt.Sprintf("%s_%d", toolName, now.UnixMilli()),
		ToolName:  toolName,
		UserQuery: userQuery,
		Results:   results,
		Timestamp: now,
		CanExpand: canExpand,
		Status:    StatusActive,
	}
	s.entries = append(s.entries, entry)
	s.evict()
	return entry
}

// evict drops oldest superseded entries first, then oldest entries, until the
// store fits its cap.
func (s *ResultStore) evict() {
	for len(s.entries) > s.cap {
		dropped := false
		for i, e := range s.entries {
			if e.Status == StatusSuperseded {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
				dropped = true
				break
			}
		}
		if !dropped {
			s.entries = s.entries[1:]
		}
	}
}

// Get retrieves an entry by id, regardless of status.
func (s *ResultStore) Get(id string) (*ResultEntry, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Active returns the active entries, oldest first.
func (s *ResultStore) Active() []*ResultEntry {
	var active []*ResultEntry
	for _, e := range s.entries {
		if e.Status == StatusActive {
			active = append(active, e)
		}
	}
	return active
}

// Len returns the total number of entries, superseded included.
func (s *ResultStore) Len() int {
	return len(s.entries)
}

// Summaries describes the active entries to the cache router.
func (s *ResultStore) Summaries() []ai.CachedResultSummary {
	active := s.Active()
	summaries := make([]ai.CachedResultSummary, 0, len(active))
	for _, e := range active {
		summaries = append(summaries, ai.CachedResultSummary{
			ID:          e.ID,
			UserQuery:   e.UserQuery,
			ResultCount: len(e.Results),
			Timestamp:   e.Timestamp,
		})
	}
	return summaries
}

// MergedResult is one deduplicated item of a combined result set, tagged with
// the id of the entry it first appeared in.
type MergedResult struct {
	core.MatchResult
	OriginID string
}

// DedupeMerge combines result sets by uid, keeping the first occurrence and
// recording its originating entry id.
func DedupeMerge(entries ...*ResultEntry) []MergedResult {
	var merged []MergedResult
	seen := make(map[core.UID]bool)
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		for _, r := range entry.Results {
			if seen[r.UID] {
				continue
			}
			seen[r.UID] = true
			merged = append(merged, MergedResult{MatchResult: r, OriginID: entry.ID})
		}
	}
	return merged
}

// Conversation is the multi-turn state wrapped around the pipeline. It is
// owned by the caller; the orchestrator reads and updates it between turns.
type Conversation struct {
	// ID identifies the conversation.
	ID string

	// History is the rendered turns so far, oldest first.
	History []string

	// Store caches result sets across turns.
	Store *ResultStore

	// Private bypasses cache processing entirely and routes every turn to
	// a fresh, content-blind search.
	Private bool

	// HasLimitedResults records that the last turn truncated its results,
	// making an expansion follow-up meaningful.
	HasLimitedResults bool

	// ExpansionLevel counts how many times this conversation widened a
	// result set through resumption.
	ExpansionLevel int

	// resuming guards against overlapping resumptions.
	resuming atomic.Bool
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{
		ID:    uuid.NewString(),
		Store: NewResultStore(0),
	}
}

// AppendTurn records a user/answer exchange in the history.
func (c *Conversation) AppendTurn(userQuery, answer string) {
	c.History = append(c.History, "user: "+userQuery)
	if answer != "" {
		c.History = append(c.History, "assistant: "+answer)
	}
}

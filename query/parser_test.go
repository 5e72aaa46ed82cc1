package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/graphseek/core"
)

func TestParseSearchListBasics(t *testing.T) {
	t.Run("single term", func(t *testing.T) {
		list, err := ParseSearchList("travel")
		require.NoError(t, err)
		require.Len(t, list.Items, 1)
		require.Len(t, list.Items[0].Alternatives, 1)
		assert.Equal(t, "travel", list.Items[0].Alternatives[0].Text)
		assert.Equal(t, core.MatchContains, list.Items[0].Alternatives[0].Match)
		assert.False(t, list.Items[0].Negate)
		assert.False(t, list.Items[0].TopBlock)
	})

	t.Run("conjunction and disjunction", func(t *testing.T) {
		list, err := ParseSearchList("deadline|due date + roadmap")
		require.NoError(t, err)
		require.Len(t, list.Items, 2)
		require.Len(t, list.Items[0].Alternatives, 2)
		assert.Equal(t, "deadline", list.Items[0].Alternatives[0].Text)
		assert.Equal(t, "due date", list.Items[0].Alternatives[1].Text)
		assert.Equal(t, "roadmap", list.Items[1].Alternatives[0].Text)
	})

	t.Run("exclusion item", func(t *testing.T) {
		list, err := ParseSearchList("meeting + notes - archived")
		require.NoError(t, err)
		require.Len(t, list.Items, 3)
		assert.False(t, list.Items[0].Negate)
		assert.False(t, list.Items[1].Negate)
		assert.True(t, list.Items[2].Negate)
		assert.Equal(t, "archived", list.Items[2].Alternatives[0].Text)
	})

	t.Run("hyphenated words are not exclusions", func(t *testing.T) {
		list, err := ParseSearchList("follow-up + meeting")
		require.NoError(t, err)
		require.Len(t, list.Items, 2)
		assert.Equal(t, "follow-up", list.Items[0].Alternatives[0].Text)
		assert.False(t, list.Items[0].Negate)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseSearchList("   ")
		assert.ErrorIs(t, err, ErrEmptySearchList)
	})

	t.Run("too many items", func(t *testing.T) {
		_, err := ParseSearchList("a + b + c + d + e")
		assert.ErrorIs(t, err, core.ErrInvalidSearchList)
	})

	t.Run("two exclusions rejected", func(t *testing.T) {
		_, err := ParseSearchList("a - b - c")
		assert.ErrorIs(t, err, core.ErrInvalidSearchList)
	})
}

func TestParseSearchListMarkers(t *testing.T) {
	t.Run("semantic expansion leading tilde", func(t *testing.T) {
		list, err := ParseSearchList("~sleep")
		require.NoError(t, err)
		assert.True(t, list.Items[0].Alternatives[0].SemanticExpansion)
		assert.Equal(t, "sleep", list.Items[0].Alternatives[0].Text)
	})

	t.Run("semantic expansion trailing tilde", func(t *testing.T) {
		list, err := ParseSearchList("sleep~")
		require.NoError(t, err)
		assert.True(t, list.Items[0].Alternatives[0].SemanticExpansion)
		assert.Equal(t, "sleep", list.Items[0].Alternatives[0].Text)
	})

	t.Run("fuzzy star", func(t *testing.T) {
		list, err := ParseSearchList("*burnout")
		require.NoError(t, err)
		assert.True(t, list.Items[0].Alternatives[0].SemanticExpansion)
		assert.Equal(t, "burnout", list.Items[0].Alternatives[0].Text)
	})

	t.Run("quoted exact term", func(t *testing.T) {
		list, err := ParseSearchList(`"TODO"`)
		require.NoError(t, err)
		cond := list.Items[0].Alternatives[0]
		assert.Equal(t, "TODO", cond.Text)
		assert.Equal(t, core.MatchExact, cond.Match)
		assert.True(t, cond.CaseSensitive)
		assert.False(t, cond.SemanticExpansion)
	})

	t.Run("page reference", func(t *testing.T) {
		list, err := ParseSearchList("[[Project Alpha]] + status")
		require.NoError(t, err)
		cond := list.Items[0].Alternatives[0]
		assert.Equal(t, core.ConditionPageRef, cond.Type)
		assert.Equal(t, "Project Alpha", cond.Text)
	})

	t.Run("tag reference", func(t *testing.T) {
		list, err := ParseSearchList("#urgent")
		require.NoError(t, err)
		cond := list.Items[0].Alternatives[0]
		assert.Equal(t, core.ConditionPageRef, cond.Type)
		assert.Equal(t, "urgent", cond.Text)
	})

	t.Run("block reference", func(t *testing.T) {
		list, err := ParseSearchList("((abcdEF123))")
		require.NoError(t, err)
		cond := list.Items[0].Alternatives[0]
		assert.Equal(t, core.ConditionBlockRef, cond.Type)
		assert.Equal(t, "abcdEF123", cond.Text)
	})

	t.Run("bare wildcard", func(t *testing.T) {
		list, err := ParseSearchList(".*")
		require.NoError(t, err)
		cond := list.Items[0].Alternatives[0]
		assert.Equal(t, core.ConditionRegex, cond.Type)
		assert.Equal(t, ".*", cond.Text)
	})

	t.Run("wildcard combined with condition rejected", func(t *testing.T) {
		_, err := ParseSearchList(".*|todo")
		assert.ErrorIs(t, err, core.ErrInvalidSearchList)
	})
}

func TestParseSearchListHierarchy(t *testing.T) {
	t.Run("parent to child pins left side", func(t *testing.T) {
		list, err := ParseSearchList("groceries > TODO")
		require.NoError(t, err)
		require.Len(t, list.Items, 2)
		assert.True(t, list.Items[0].TopBlock, "left side of > must carry the ancestor role")
		assert.False(t, list.Items[1].TopBlock)
		assert.Equal(t, "groceries", list.Items[0].Alternatives[0].Text)
		assert.Equal(t, "TODO", list.Items[1].Alternatives[0].Text)
	})

	t.Run("child to parent pins right side", func(t *testing.T) {
		list, err := ParseSearchList("TODO < groceries")
		require.NoError(t, err)
		require.Len(t, list.Items, 2)
		assert.False(t, list.Items[0].TopBlock)
		assert.True(t, list.Items[1].TopBlock, "right side of < must carry the ancestor role")
	})

	t.Run("wildcard child side", func(t *testing.T) {
		list, err := ParseSearchList("groceries > .*")
		require.NoError(t, err)
		require.Len(t, list.Items, 2)
		assert.True(t, list.Items[0].TopBlock)
		assert.Equal(t, ".*", list.Items[1].Alternatives[0].Text)
	})

	t.Run("multiple operators rejected", func(t *testing.T) {
		_, err := ParseSearchList("a > b > c")
		assert.ErrorIs(t, err, ErrMultipleHierarchy)
	})

	t.Run("missing side rejected", func(t *testing.T) {
		_, err := ParseSearchList("todo >")
		assert.ErrorIs(t, err, ErrEmptyHierarchySide)
	})
}

package query

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/graphseek/ai/mock"
	"github.com/poiesic/graphseek/core"
)

func compileString(t *testing.T, compiler *Compiler, raw string) []core.Filter {
	t.Helper()
	filters, err := compiler.CompileSymbolic(context.Background(), raw)
	require.NoError(t, err)
	return filters
}

func TestCompileBasics(t *testing.T) {
	compiler := NewCompiler(nil)

	t.Run("case-insensitive by default", func(t *testing.T) {
		filters := compileString(t, compiler, "deadline|due date + roadmap")
		require.Len(t, filters, 2)
		assert.Equal(t, "(?i)deadline|due date", filters[0].RegexString)
		assert.Equal(t, "(?i)roadmap", filters[1].RegexString)

		re, err := filters[0].Compile()
		require.NoError(t, err)
		assert.True(t, re.MatchString("the DEADLINE slipped"))
		assert.True(t, re.MatchString("due date is friday"))
		assert.False(t, re.MatchString("no match here"))
	})

	t.Run("quoted term compiles to word boundary without case folding", func(t *testing.T) {
		filters := compileString(t, compiler, `"TODO"`)
		require.Len(t, filters, 1)
		assert.Equal(t, `\bTODO\b`, filters[0].RegexString)

		re, err := filters[0].Compile()
		require.NoError(t, err)
		assert.True(t, re.MatchString("TODO buy milk"))
		assert.False(t, re.MatchString("todo buy milk"))
		assert.False(t, re.MatchString("TODOS"))
	})

	t.Run("exclusion flag", func(t *testing.T) {
		filters := compileString(t, compiler, "meeting - archived")
		require.Len(t, filters, 2)
		assert.False(t, filters[0].IsToExclude)
		assert.True(t, filters[1].IsToExclude)
	})

	t.Run("hierarchy roles carried through", func(t *testing.T) {
		filters := compileString(t, compiler, "groceries > TODO")
		require.Len(t, filters, 2)
		assert.True(t, filters[0].IsTopBlockFilter)
		assert.False(t, filters[1].IsTopBlockFilter)

		filters = compileString(t, compiler, "TODO < groceries")
		require.Len(t, filters, 2)
		assert.False(t, filters[0].IsTopBlockFilter)
		assert.True(t, filters[1].IsTopBlockFilter)
	})

	t.Run("page reference matches all syntaxes", func(t *testing.T) {
		filters := compileString(t, compiler, "[[Project Alpha]]")
		re, err := filters[0].Compile()
		require.NoError(t, err)
		assert.True(t, re.MatchString("see [[Project Alpha]] for details"))
		assert.False(t, re.MatchString("project alpha without brackets"))
	})

	t.Run("regex metacharacters in terms are quoted", func(t *testing.T) {
		filters := compileString(t, compiler, "c++ (lang)")
		re, err := filters[0].Compile()
		require.NoError(t, err)
		assert.True(t, re.MatchString("learning C++ (LANG) basics"))
	})
}

func TestCompileSemanticExpansion(t *testing.T) {
	t.Run("variants merge into the same regex", func(t *testing.T) {
		expander := mock.NewMockExpander()
		expander.ExpandTermFunc = func(ctx context.Context, term string) ([]string, error) {
			return []string{"nap", "rest"}, nil
		}
		compiler := NewCompiler(expander)

		filters := compileString(t, compiler, "~sleep")
		require.Len(t, filters, 1)
		assert.Equal(t, "(?i)sleep|nap|rest", filters[0].RegexString)
		assert.Equal(t, 1, expander.CallCount())
	})

	t.Run("expansion failure propagates", func(t *testing.T) {
		expander := mock.NewMockExpander()
		expander.ExpandTermFunc = func(ctx context.Context, term string) ([]string, error) {
			return nil, errors.New("model unavailable")
		}
		compiler := NewCompiler(expander)

		_, err := compiler.CompileSymbolic(context.Background(), "~sleep")
		assert.Error(t, err)
	})

	t.Run("no expander compiles the bare term", func(t *testing.T) {
		compiler := NewCompiler(nil)
		filters := compileString(t, compiler, "~sleep")
		require.Len(t, filters, 1)
		assert.Equal(t, "(?i)sleep", filters[0].RegexString)
	})

	t.Run("variants with regex metacharacters stay literal", func(t *testing.T) {
		expander := mock.NewMockExpander()
		expander.ExpandTermFunc = func(ctx context.Context, term string) ([]string, error) {
			return []string{"1:1 (weekly)"}, nil
		}
		compiler := NewCompiler(expander)

		filters := compileString(t, compiler, "~meeting")
		re, err := filters[0].Compile()
		require.NoError(t, err)
		assert.True(t, re.MatchString("our 1:1 (weekly) notes"))
	})
}

func TestCompileNoUsableFilters(t *testing.T) {
	compiler := NewCompiler(nil)

	t.Run("exclusion-only list", func(t *testing.T) {
		_, err := compiler.CompileSymbolic(context.Background(), "- archived")
		assert.ErrorIs(t, err, ErrNoUsableFilters)
	})

	t.Run("items reduced to empty regex", func(t *testing.T) {
		list := &core.SearchList{
			Items: []core.SearchItem{
				{Alternatives: []core.SearchCondition{{Text: "   ", Type: core.ConditionText, Match: core.MatchContains}}},
			},
		}
		_, err := compiler.Compile(context.Background(), list)
		assert.ErrorIs(t, err, ErrNoUsableFilters)
	})
}

func TestCompiledFiltersAreValid(t *testing.T) {
	compiler := NewCompiler(nil)
	for _, raw := range []string{
		"travel", "a|b + c", `"Exact"`, "#tag + [[Page]]", "parent > .*",
	} {
		filters := compileString(t, compiler, raw)
		for _, f := range filters {
			_, err := regexp.Compile(f.RegexString)
			require.NoError(t, err, "filter %q from %q", f.RegexString, raw)
		}
	}
}

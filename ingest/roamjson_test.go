package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/graphseek/core"
)

const sampleExport = `[
  {
    "title": "Recipes",
    "edit-time": 1756300000000,
    "create-time": 1756200000000,
    "children": [
      {
        "string": "sugar and vanilla notes",
        "uid": "rootRecip",
        "edit-time": 1756300000000,
        "children": [
          {"string": "add sugar", "uid": "childAAAA", "edit-time": 1756300100000},
          {"string": "vanilla extract", "uid": "childBBBB", "edit-time": 1756300200000}
        ]
      }
    ]
  },
  {
    "title": "August 27th, 2026",
    "children": [
      {"string": "sugar on toast", "uid": "dnpBlock1"}
    ]
  }
]`

func TestParseExport(t *testing.T) {
	graph, err := ParseExport(strings.NewReader(sampleExport))
	require.NoError(t, err)

	require.Len(t, graph.Pages, 2)
	require.Len(t, graph.Blocks, 4)

	recipes := graph.Pages[0]
	assert.Equal(t, "Recipes", recipes.Title)
	assert.Equal(t, core.UIDFromContent("Recipes"), recipes.UID)
	assert.Equal(t, time.UnixMilli(1756300000000).UTC(), recipes.EditTime)
	assert.False(t, recipes.IsDaily())

	daily := graph.Pages[1]
	assert.True(t, daily.IsDaily())

	byUID := make(map[core.UID]*core.Block)
	for _, b := range graph.Blocks {
		byUID[b.UID] = b
	}

	root := byUID["rootRecip"]
	require.NotNil(t, root)
	assert.Empty(t, root.ParentUID, "page-level blocks have no parent block")
	assert.Equal(t, recipes.UID, root.PageUID)
	assert.Equal(t, "Recipes", root.PageTitle)
	assert.Equal(t, []core.UID{"childAAAA", "childBBBB"}, root.ChildrenUIDs,
		"children keep export order")

	child := byUID["childAAAA"]
	require.NotNil(t, child)
	assert.Equal(t, core.UID("rootRecip"), child.ParentUID)
	assert.Equal(t, "add sugar", child.Content)
}

func TestParseExportCreatesReferencedPages(t *testing.T) {
	export := `[
	  {
	    "title": "Recipes",
	    "children": [
	      {"string": "order flour from [[Suppliers]] #errand", "uid": "refBlock11"},
	      {"string": "source:: the mill", "uid": "refBlock22"},
	      {"string": "see [[Recipes]] again", "uid": "refBlock33"}
	    ]
	  }
	]`

	graph, err := ParseExport(strings.NewReader(export))
	require.NoError(t, err)

	byTitle := make(map[string]*core.Page)
	for _, p := range graph.Pages {
		require.NotContains(t, byTitle, p.Title, "no duplicate pages")
		byTitle[p.Title] = p
	}

	require.Len(t, graph.Pages, 4)
	assert.Contains(t, byTitle, "Suppliers")
	assert.Contains(t, byTitle, "errand")
	assert.Contains(t, byTitle, "source")

	suppliers := byTitle["Suppliers"]
	assert.Equal(t, core.UIDFromContent("Suppliers"), suppliers.UID)
	assert.True(t, suppliers.EditTime.IsZero(), "referenced pages carry no timestamps")
}

func TestParseExportGeneratesStableUIDs(t *testing.T) {
	export := `[{"title": "Inbox", "children": [{"string": "call the dentist"}]}]`

	first, err := ParseExport(strings.NewReader(export))
	require.NoError(t, err)
	second, err := ParseExport(strings.NewReader(export))
	require.NoError(t, err)

	require.Len(t, first.Blocks, 1)
	assert.NotEmpty(t, first.Blocks[0].UID)
	assert.Equal(t, first.Blocks[0].UID, second.Blocks[0].UID,
		"a block without a uid gets the same derived uid on every parse")
}

func TestParseExportRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"not json":       `{{{`,
		"untitled page":  `[{"children": []}]`,
		"not page array": `{"title": "Recipes"}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseExport(strings.NewReader(raw))
			assert.ErrorIs(t, err, ErrMalformedExport)
		})
	}
}

package graphseek

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/graphseek/ai/mock"
	"github.com/poiesic/graphseek/ingest"
)

const testExport = `[
  {
    "title": "Recipes",
    "edit-time": 1756200000000,
    "children": [
      {
        "string": "sourdough starter notes",
        "uid": "rootRecip1",
        "edit-time": 1756200000000,
        "children": [
          {"string": "feed the starter with rye flour", "uid": "childAAA1", "edit-time": 1756200100000},
          {"string": "starter doubles in six hours", "uid": "childAAA2", "edit-time": 1756200200000}
        ]
      }
    ]
  }
]`

func TestNewAgent(t *testing.T) {
	t.Run("create on disk", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		agent, err := NewAgent(tmpDir, WithAIProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, agent)
		defer agent.Close()

		assert.NotNil(t, agent.BlockRepository())
		assert.NotNil(t, agent.PageRepository())
		assert.NotNil(t, agent.Orchestrator())
	})

	t.Run("create in memory", func(t *testing.T) {
		agent, err := NewAgent("", WithAIProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, agent)
		assert.NoError(t, agent.Close())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		agent, err := NewAgent(tmpFile, WithAIProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, agent)
	})
}

func TestAgent_FactoryMethods(t *testing.T) {
	agent, err := NewAgent("", WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer agent.Close()

	t.Run("can create importer", func(t *testing.T) {
		importer, err := agent.NewImporter()
		require.NoError(t, err)
		require.NotNil(t, importer)
		importer.Release()
	})

	t.Run("can start conversation", func(t *testing.T) {
		conv := agent.NewConversation()
		require.NotNil(t, conv)
		assert.NotEmpty(t, conv.ID)
	})
}

func TestAgent_AskRoundTrip(t *testing.T) {
	agent, err := NewAgent("", WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer agent.Close()

	importer, err := agent.NewImporter(ingest.WithPoolSize(1))
	require.NoError(t, err)
	defer importer.Release()

	pages, blocks, err := importer.Import(context.Background(), strings.NewReader(testExport))
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
	assert.Equal(t, 3, blocks)

	conv := agent.NewConversation()
	result, err := agent.Orchestrator().RunTurn(context.Background(), conv, "starter notes")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Empty)
	assert.Contains(t, result.Display, "((rootRecip1))")
	assert.Contains(t, result.Display, "[[Recipes]]")
}

// Package mcpserver exposes the search agent over the Model Context
// Protocol via stdio transport, so LLM hosts can query the graph as a tool.
package mcpserver

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/poiesic/graphseek/ingest"
	"github.com/poiesic/graphseek/orchestrate"
)

// Server wraps the MCP server with the graph search tools.
//
// A stdio server serves exactly one host session, so the server owns one
// conversation: consecutive ask_graph calls share history and cached result
// sets, and expand_results redeems the most recent continuation.
type Server struct {
	mcp      *server.MCPServer
	orch     *orchestrate.Orchestrator
	importer *ingest.Importer

	mu           sync.Mutex
	conv         *orchestrate.Conversation
	continuation string
}

// New creates an MCP server with all graph tools registered.
func New(orch *orchestrate.Orchestrator, importer *ingest.Importer) *Server {
	s := &Server{
		orch:     orch,
		importer: importer,
		conv:     orchestrate.NewConversation(),
	}

	s.mcp = server.NewMCPServer(
		"GraphSeek",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("ask_graph",
		mcp.WithDescription("Search the block graph with a natural-language request. "+
			"Results cite blocks as {{[[embed-path]]: ((uid))}} and pages as [[Page Name]]; "+
			"pass those references through unaltered when showing them to the user."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The natural-language request")),
		mcp.WithBoolean("private", mcp.Description("Skip cached results and run a strictly fresh search")),
	), s.askGraph)

	s.mcp.AddTool(mcp.NewTool("expand_results",
		mcp.WithDescription("Follow up on the previous ask_graph call: show the next page "+
			"of results, or widen the result set beyond its cap."),
		mcp.WithString("mode", mcp.Description("\"show_more\" (default) or \"expand\"")),
	), s.expandResults)

	s.mcp.AddTool(mcp.NewTool("import_graph",
		mcp.WithDescription("Import a graph export (nested page/block JSON) from a file path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the export JSON file")),
	), s.importGraph)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) askGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userQuery, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	conv := s.conv
	conv.Private, _ = req.GetArguments()["private"].(bool)
	s.mu.Unlock()

	result, err := s.orch.RunTurn(ctx, conv, userQuery)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	s.continuation = result.ContinuationID
	s.mu.Unlock()

	return mcp.NewToolResultText(renderTurn(result)), nil
}

func (s *Server) expandResults(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	token := s.continuation
	s.mu.Unlock()
	if token == "" {
		return mcp.NewToolResultError("nothing to expand: the previous search was not truncated"), nil
	}

	decision := orchestrate.ResumeShowMore
	if req.GetString("mode", "show_more") == "expand" {
		decision = orchestrate.ResumeExpand
	}

	result, err := s.orch.Resume(ctx, token, decision)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	s.continuation = result.ContinuationID
	s.mu.Unlock()

	return mcp.NewToolResultText(renderTurn(result)), nil
}

func (s *Server) importGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s.importer == nil {
		return mcp.NewToolResultError("import is not available on this server"), nil
	}

	pages, blocks, err := s.importer.ImportFile(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(
		fmt.Sprintf("imported %d pages and %d blocks", pages, blocks)), nil
}

// renderTurn flattens a turn result for the host, appending a hint when more
// results can be fetched.
func renderTurn(result *orchestrate.TurnResult) string {
	out := result.Display
	if result.ContinuationID != "" {
		out += "\n\n(more results available: call expand_results)"
	}
	return out
}

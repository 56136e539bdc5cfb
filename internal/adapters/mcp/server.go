// Package mcpadapter exposes query processing over the Model Context
// Protocol so LLM agents can use the service as a tool.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vkuznetsov/askdata/internal/core/ports"
)

const (
	serverName    = "askdata"
	serverVersion = "1.0.0"
)

type Server struct {
	inner   *server.MCPServer
	query   ports.QueryService
	docs    ports.DocumentStore
	history ports.HistoryLog
}

func NewServer(query ports.QueryService, docs ports.DocumentStore, history ports.HistoryLog) *Server {
	s := &Server{
		inner: server.NewMCPServer(
			serverName,
			serverVersion,
			server.WithToolCapabilities(false),
		),
		query:   query,
		docs:    docs,
		history: history,
	}

	s.inner.AddTool(
		mcp.NewTool("process_query",
			mcp.WithDescription("Answer a natural-language question over company data. Routes to SQL or document search automatically."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("The free-text question to answer."),
			),
		),
		s.handleProcessQuery,
	)
	s.inner.AddTool(
		mcp.NewTool("get_suggestions",
			mcp.WithDescription("Suggest example questions matching an optional partial input."),
			mcp.WithString("partial",
				mcp.Description("Partial question text to match; empty returns the default set."),
			),
		),
		s.handleGetSuggestions,
	)
	s.inner.AddTool(
		mcp.NewTool("get_query_history",
			mcp.WithDescription("List recently processed queries, newest first."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum entries to return, default 10."),
			),
		),
		s.handleGetQueryHistory,
	)
	s.inner.AddTool(
		mcp.NewTool("get_document_stats",
			mcp.WithDescription("Summarize the processed document corpus: totals by file type, chunk and word counts."),
		),
		s.handleGetDocumentStats,
	)

	return s
}

// ServeStdio blocks until the stdio transport closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.inner)
}

func (s *Server) handleProcessQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := s.query.ProcessQuery(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("process query: %v", err)), nil
	}
	return toolResultJSON(resp)
}

func (s *Server) handleGetSuggestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	partial := request.GetString("partial", "")
	return toolResultJSON(map[string]any{
		"suggestions": s.query.GetSuggestions(ctx, partial),
	})
}

func (s *Server) handleGetQueryHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}

	entries, err := s.history.ListRecent(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list history: %v", err)), nil
	}
	return toolResultJSON(map[string]any{"history": entries})
}

func (s *Server) handleGetDocumentStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.docs.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("corpus stats: %v", err)), nil
	}
	return toolResultJSON(stats)
}

func toolResultJSON(payload any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}

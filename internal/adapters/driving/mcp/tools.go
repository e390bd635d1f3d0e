package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// ListSessionsInput is the input schema for the list_sessions tool.
type ListSessionsInput struct {
	Kind  string `json:"kind" jsonschema:"assistant to read: ipc or bns"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of sessions to return (default 50)"`
}

// ListSessionsOutput is the output schema for the list_sessions tool.
type ListSessionsOutput struct {
	Sessions []SessionSummaryOutput `json:"sessions"`
	Count    int                    `json:"count"`
}

// GetSessionInput is the input schema for the get_session tool.
type GetSessionInput struct {
	Kind      string `json:"kind" jsonschema:"assistant to read: ipc or bns"`
	SessionID string `json:"session_id,omitempty" jsonschema:"session id (default: the current session)"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List legal assistant conversations, newest first",
	}, s.handleListSessions)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_session",
		Description: "Read a legal assistant conversation with its matched legal sections",
	}, s.handleGetSession)
}

// handleListSessions handles the list_sessions tool invocation.
func (s *Server) handleListSessions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListSessionsInput,
) (*mcp.CallToolResult, ListSessionsOutput, error) {
	kind, err := domain.ParseAssistantKind(input.Kind)
	if err != nil {
		return nil, ListSessionsOutput{}, err
	}
	limit := input.Limit
	if limit <= 0 {
		limit = domain.MaxSessions
	}

	sessions := s.ports.Sessions.List(ctx, kind)
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}
	current := s.ports.Sessions.CurrentID(kind)

	output := ListSessionsOutput{
		Sessions: make([]SessionSummaryOutput, len(sessions)),
		Count:    len(sessions),
	}
	for i := range sessions {
		output.Sessions[i] = summaryOutput(&sessions[i], current)
	}
	return nil, output, nil
}

// handleGetSession handles the get_session tool invocation.
func (s *Server) handleGetSession(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetSessionInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	kind, err := domain.ParseAssistantKind(input.Kind)
	if err != nil {
		return nil, SessionOutput{}, err
	}

	id := input.SessionID
	if id == "" {
		id = s.ports.Sessions.CurrentID(kind)
	}
	if id == "" {
		return nil, SessionOutput{}, fmt.Errorf("no current %s session: %w", kind, domain.ErrNotFound)
	}

	session := s.ports.Sessions.Get(ctx, kind, id)
	if session == nil {
		return nil, SessionOutput{}, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return nil, sessionOutput(session), nil
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for vfw resources.
	uriScheme = "vfw://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "{kind}/sessions",
		Name:        "sessions",
		Description: "Conversations with the ipc or bns assistant, newest first",
		MIMEType:    "application/json",
	}, s.handleSessionsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "{kind}/sessions/{sessionId}",
		Name:        "session",
		Description: "One conversation with its messages and legal sections",
		MIMEType:    "application/json",
	}, s.handleSessionResource)
}

// handleSessionsResource returns the session list for an assistant.
func (s *Server) handleSessionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	kind, id, ok := parseSessionURI(req.Params.URI)
	if !ok || id != "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sessions := s.ports.Sessions.List(ctx, kind)
	current := s.ports.Sessions.CurrentID(kind)
	infos := make([]SessionSummaryOutput, len(sessions))
	for i := range sessions {
		infos[i] = summaryOutput(&sessions[i], current)
	}
	return jsonResult(req.Params.URI, infos)
}

// handleSessionResource returns one session.
func (s *Server) handleSessionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	kind, id, ok := parseSessionURI(req.Params.URI)
	if !ok || id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	session := s.ports.Sessions.Get(ctx, kind, id)
	if session == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResult(req.Params.URI, sessionOutput(session))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// parseSessionURI splits vfw://{kind}/sessions[/{id}].
func parseSessionURI(uri string) (domain.AssistantKind, string, bool) {
	if !strings.HasPrefix(uri, uriScheme) {
		return "", "", false
	}
	parts := strings.Split(strings.TrimPrefix(uri, uriScheme), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[1] != "sessions" {
		return "", "", false
	}
	kind, err := domain.ParseAssistantKind(parts[0])
	if err != nil {
		return "", "", false
	}
	if len(parts) == 3 {
		if parts[2] == "" {
			return "", "", false
		}
		return kind, parts[2], true
	}
	return kind, "", true
}

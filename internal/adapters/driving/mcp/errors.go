// Package mcp provides an MCP (Model Context Protocol) server adapter for vfw.
// It lets AI assistants read the local IPC and BNS chat history.
package mcp

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("mcp: session service is required")

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

var mcpCmd = &cobra.Command{
	Use:         "mcp",
	Short:       "MCP server commands",
	Long:        `Commands for the Model Context Protocol (MCP) server integration.`,
	Annotations: protected(),
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can read your
IPC and BNS conversations.

Tools:
  list_sessions  List conversations for an assistant (ipc or bns)
  get_session    Read one conversation with its legal sections

Resources:
  vfw://{kind}/sessions
  vfw://{kind}/sessions/{id}

Conversations hold personal legal questions, so the server speaks stdio
by default. --port starts an HTTP server bound to loopback; pass --host to
expose it elsewhere.

Examples:
  vfw mcp serve
  vfw mcp serve --port 8080
  vfw mcp serve --port 8080 --host 0.0.0.0`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

var (
	mcpPort int
	mcpHost string
)

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", mcp.DefaultHost, "interface to bind in HTTP mode")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if mcpPort < 0 || mcpPort > 65535 {
		return fmt.Errorf("%w: port %d out of range", domain.ErrInvalidInput, mcpPort)
	}

	server, err := mcp.NewServer(&mcp.Ports{Sessions: sessionService})
	if err != nil {
		return err
	}

	if mcpPort == 0 {
		return server.Run(cmd.Context())
	}

	ln, err := mcp.Listen(mcpHost, mcpPort)
	if err != nil {
		return err
	}
	printInfo(cmd.ErrOrStderr(), "MCP server listening on http://%s", ln.Addr())
	return server.Serve(cmd.Context(), ln)
}

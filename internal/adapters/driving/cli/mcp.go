package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/yonerge/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

Tools:
  ask       answer a question from the regulations, with sources
  retrieve  return the passages closest to a question

Resources:
  yonerge://stats  collection statistics

By default the server communicates over stdio. Use --port to serve
streamable HTTP instead.

Examples:
  # Stdio mode (default)
  yonerge mcp serve

  # HTTP mode
  yonerge mcp serve --port 8081

Assistant configuration:
  {
    "mcpServers": {
      "yonerge": {
        "command": "/path/to/yonerge",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ctx := cmd.Context()
	engine, _, err := openEngine(ctx, EngineOptions{}, nil)
	if err != nil {
		return err
	}
	defer shutdown(ctx, engine)

	server, err := mcp.NewServer(mcp.PortsFromEngine(engine))
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

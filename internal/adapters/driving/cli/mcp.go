package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragent/internal/adapters/driving/mcp"
	"github.com/custodia-labs/ragent/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server exposing the index to AI assistants.

Tools:
  ask       - answer a question from the indexed documents
  retrieve  - return the most similar chunks without calling the LLM

Resources:
  ragent://status - providers and store statistics

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead, for example for MCP Inspector.

Examples:
  ragent mcp serve
  ragent mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "ragent": {
        "command": "/path/to/ragent",
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

	b, err := requireBackend()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ask, closeFn, err := b.OpenAsk(ctx, 0)
	if err != nil {
		return err
	}
	defer closeQuietly(closeFn)

	ports := &mcp.Ports{Ask: ask}
	if status, err := b.Status(); err != nil {
		logger.Debug("status resource disabled: %v", err)
	} else {
		ports.Status = status
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

package main

import (
	"context"

	"github.com/aretw0/dyeflow/internal/cli"
	"github.com/aretw0/dyeflow/pkg/adapters/mcp"
	"github.com/aretw0/dyeflow/pkg/observability"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts an editor session as an MCP Server.
This allows AI agents to inspect and edit the process hierarchy through tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// Stdout carries JSON-RPC; logs go to stderr.
		logger := cli.NewLogger(cfg.SlogLevel(), false)

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		editor, closeStore, err := cli.NewEditor(ctx, cfg, logger, observability.LogHooks(logger))
		if err != nil {
			return err
		}
		defer closeStore()

		s := mcp.NewServer(editor, logger)
		if sse, _ := cmd.Flags().GetBool("sse"); sse {
			port, _ := cmd.Flags().GetInt("port")
			return s.ServeSSE(ctx, port)
		}
		return s.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().Bool("sse", false, "Serve over SSE instead of stdio")
	mcpCmd.Flags().Int("port", 8081, "Port for the SSE transport")
}

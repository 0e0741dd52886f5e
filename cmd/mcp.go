package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/ailint/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for Claude Code integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This allows Claude Code to run policy checks natively. Configure in
Claude Code with:

  {
    "mcpServers": {
      "ailint": { "command": "ailint", "args": ["mcp"] }
    }
  }

Available tools: ailint_list_sessions, ailint_check_session,
ailint_session_insights`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := mcp.NewServer(newChecker(), newPolicyStore(), sessionsRoot())
		return srv.ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

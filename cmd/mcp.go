package cmd

import (
	"github.com/slopscan/slopscan/internal/github"
	"github.com/slopscan/slopscan/internal/iocache"
	"github.com/slopscan/slopscan/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Slopscan MCP server",
	Long:  `Launch an MCP server that allows AI agents to score repositories via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The server receives the repository per tool call, so setup skips
		// the positional argument. Logs must stay off stdout, which carries
		// the protocol.
		return serverSetup(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		src := github.NewClient(cfg.Token)
		return mcp.StartMCPServer(rootCtx, cfg, src, iocache.Manager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

package cmd

import (
	"github.com/slopscan/slopscan/core"
	"github.com/slopscan/slopscan/internal/contract"
	"github.com/spf13/cobra"
)

// scanCmd performs the staged repository analysis.
var scanCmd = &cobra.Command{
	Use:   "scan <owner/repo>",
	Short: "Score a repository for AI-slop likelihood.",
	Long: `Fetch a repository's metadata, commit history and file tree from the
GitHub API and compute a 0-100 slop likelihood score.

The scan runs in two passes:
- A quick commit pass scoring commit language and cadence signals
- A deep pass sampling file contents for comment, repetition and structure signals

The deep pass always completes before the command exits; pass --provisional to
also print the quick result as soon as it is ready.

Examples:
  # Score a repository by its default branch
  slopscan scan octocat/hello-world

  # Score a specific branch with JSON output
  slopscan scan octocat/hello-world --ref dev --output json

  # Accept a full URL and export to parquet
  slopscan scan https://github.com/octocat/hello-world --output parquet --output-file scan.parquet

  # Use a token for private repositories and higher rate limits
  SLOPSCAN_TOKEN=ghp_... slopscan scan octocat/hello-world`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScan(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run scan", err)
		}
	},
}

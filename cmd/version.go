package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for bug reports and compatibility checks.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of slopscan.",
	Long: `Display the release version, git commit, build timestamp and Go runtime.

Include this output when reporting a bug, since scoring behavior can change
between releases.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("slopscan %s\n", version)
		cmd.Printf("  commit:  %s\n", commit)
		cmd.Printf("  built:   %s\n", date)
		cmd.Printf("  runtime: %s\n", runtime.Version())
	},
}

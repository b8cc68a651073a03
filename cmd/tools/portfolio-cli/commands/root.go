// cmd/tools/portfolio-cli/commands/root.go
package commands

import (
	"github.com/spf13/cobra"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "portfolio-cli",
		Short: "Score partner portfolios and maintain the activity registry",
		Long: `Offline tooling for the portfolio scoring workers.

Examples:
  portfolio-cli score testdata/portfolio.json
  portfolio-cli score --format table testdata/portfolio.json
  portfolio-cli registry validate --path configs/activity-registry.json`,
		SilenceUsage: true,
	}
	root.AddCommand(newScoreCmd(), newRegistryCmd())
	return root
}

// Execute runs the root command against os.Args.
func Execute() error {
	return rootCmd.Execute()
}

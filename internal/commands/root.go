package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JamesS-M/ledger-dashboard/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "ledger-dashboard",
		Short:   "Financial dashboard over hledger/ledger journals",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newAnalyzeCommand(&verbose))
	rootCmd.AddCommand(newServeCommand(&verbose))

	return rootCmd
}

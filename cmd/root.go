// Package cmd implements the semindex CLI: index, resolve, query, watch,
// serve and version subcommands over the internal/project pipeline.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shivasurya/semindex/internal/analytics"
	"github.com/shivasurya/semindex/internal/config"
)

var settings config.Settings

var rootCmd = &cobra.Command{
	Use:   "semindex",
	Short: "semindex - a semantic index and cross-reference resolver for source code",
	Long: `semindex builds a two-phase semantic index over a JS/TS/Python/Rust
codebase: per-file parsing and extraction, then whole-project lexical name
resolution and call resolution, so tools can ask "what does this call
resolve to" and "what reaches this function indirectly".`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics") //nolint:all
		settings = config.Load()
		if disableMetrics {
			settings.DisableMetrics = true
		}
		analytics.Init(settings.DisableMetrics, settings.InstallID)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable anonymous usage metrics")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (-v, -vv)")
}

package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/shivasurya/semindex/internal/analytics"
	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/discovery"
	"github.com/shivasurya/semindex/internal/filecache"
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/modresolve"
	"github.com/shivasurya/semindex/internal/output"
	"github.com/shivasurya/semindex/internal/project"
	"github.com/shivasurya/semindex/internal/report"
	"github.com/shivasurya/semindex/internal/resolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Index a project and report call resolution statistics",
	Long: `Builds the semantic index over a project and prints a resolution
report: how many calls resolved vs. unresolved, a breakdown by call type,
and (with --sarif) a SARIF diagnostics file listing every unresolved call.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.ResolveCommand)

		root := args[0]
		logger := output.NewLogger(verbosityFromFlags(cmd))
		logger.Banner(Version)

		sarifPath, _ := cmd.Flags().GetString("sarif")

		files, err := discovery.DiscoverFiles(root, discovery.Options{})
		if err != nil {
			return fmt.Errorf("resolve: %w", err)
		}

		fc := filecache.New(filecache.DefaultConfig())
		defer fc.Close()

		engine, err := capture.NewEngine()
		if err != nil {
			return fmt.Errorf("resolve: %w", err)
		}

		proj := project.New(engine, fc, modresolve.New(root), nil)

		idsFiles := make([]ids.FilePath, len(files))
		for i, f := range files {
			idsFiles[i] = ids.FilePath(f)
		}

		stop := logger.StartTiming("resolve")
		errs := proj.ProcessFiles(idsFiles)
		stop()
		for _, e := range errs {
			logger.Warning("%v", e)
			analytics.ReportEvent(analytics.ErrorResolvingCall)
		}

		calls := proj.Resolution.GetAllCalls()
		printResolutionReport(root, calls)

		if sarifPath != "" {
			out, err := os.Create(sarifPath)
			if err != nil {
				return fmt.Errorf("resolve: %w", err)
			}
			defer out.Close()
			formatter := report.NewSARIFFormatter(out)
			if err := formatter.Format(calls, "semindex"); err != nil {
				return fmt.Errorf("resolve: %w", err)
			}
			logger.Statistic("wrote SARIF report to %s", sarifPath)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().String("sarif", "", "Write unresolved-call diagnostics to this SARIF file")
}

func printResolutionReport(root string, calls []*resolve.CallReference) {
	resolved, unresolved := 0, 0
	byType := make(map[resolve.CallType]int)
	for _, call := range calls {
		byType[call.CallType]++
		if len(call.Resolutions) > 0 {
			resolved++
		} else {
			unresolved++
		}
	}

	fmt.Printf("\nResolution Report for %s\n", root)
	fmt.Println("===============================================")
	fmt.Printf("Total calls:      %d\n", len(calls))
	fmt.Printf("Resolved:         %d\n", resolved)
	fmt.Printf("Unresolved:       %d\n", unresolved)
	if len(calls) > 0 {
		fmt.Printf("Resolution rate:  %.1f%%\n", 100*float64(resolved)/float64(len(calls)))
	}

	fmt.Println("\nBy call type:")
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("  %-20s %d\n", t, byType[resolve.CallType(t)])
	}
}

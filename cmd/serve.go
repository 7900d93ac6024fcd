package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shivasurya/semindex/internal/analytics"
	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/discovery"
	"github.com/shivasurya/semindex/internal/filecache"
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/mcplog"
	"github.com/shivasurya/semindex/internal/mcpserver"
	"github.com/shivasurya/semindex/internal/modresolve"
	"github.com/shivasurya/semindex/internal/output"
	"github.com/shivasurya/semindex/internal/project"
)

var serveCmd = &cobra.Command{
	Use:   "serve <path>",
	Short: "Index a project and serve its semantic index over MCP on stdio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.ServeCommand)

		root := args[0]
		logPath, _ := cmd.Flags().GetString("log-file")
		logger := output.NewLogger(verbosityFromFlags(cmd))

		files, err := discovery.DiscoverFiles(root, discovery.Options{})
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}

		fc := filecache.New(filecache.DefaultConfig())
		defer fc.Close()

		engine, err := capture.NewEngine()
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}

		proj := project.New(engine, fc, modresolve.New(root), nil)

		idsFiles := make([]ids.FilePath, len(files))
		for i, f := range files {
			idsFiles[i] = ids.FilePath(f)
		}
		logger.Statistic("indexing %d files before serving", len(idsFiles))
		if errs := proj.ProcessFiles(idsFiles); len(errs) > 0 {
			for _, e := range errs {
				logger.Warning("%v", e)
			}
		}

		toolLog, err := mcplog.NewLogger(logPath)
		if err != nil {
			logger.Warning("tool-call logging disabled: %v", err)
			toolLog = nil
		}

		srv := mcpserver.NewServer(proj, fc, toolLog)
		defer srv.Close()

		logger.Progress("serving MCP over stdio")
		return srv.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("log-file", "", "Log every tool call as JSONL to this path (empty disables logging)")
}

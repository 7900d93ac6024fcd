package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shivasurya/semindex/internal/analytics"
	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/discovery"
	"github.com/shivasurya/semindex/internal/filecache"
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/modresolve"
	"github.com/shivasurya/semindex/internal/output"
	"github.com/shivasurya/semindex/internal/project"
	"github.com/shivasurya/semindex/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Index a project, then keep the index in sync as files change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.WatchCommand)

		root := args[0]
		debounceMs, _ := cmd.Flags().GetInt("debounce-ms")
		logger := output.NewLogger(verbosityFromFlags(cmd))
		logger.Banner(Version)

		files, err := discovery.DiscoverFiles(root, discovery.Options{})
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}

		fc := filecache.New(filecache.DefaultConfig())
		defer fc.Close()

		engine, err := capture.NewEngine()
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}

		proj := project.New(engine, fc, modresolve.New(root), loggingStatus{logger})

		idsFiles := make([]ids.FilePath, len(files))
		for i, f := range files {
			idsFiles[i] = ids.FilePath(f)
		}
		logger.Statistic("initial index: %d files", len(idsFiles))
		if errs := proj.ProcessFiles(idsFiles); len(errs) > 0 {
			for _, e := range errs {
				logger.Warning("%v", e)
			}
		}

		opts := watch.DefaultOptions()
		if debounceMs > 0 {
			opts.DebounceMs = debounceMs
		}
		w, err := watch.New(proj, logger, opts)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		if err := w.Start(root); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		defer w.Stop()

		logger.Progress("watching %s for changes (Ctrl+C to stop)", root)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		logger.Progress("stopping watcher")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Int("debounce-ms", 0, "Debounce window in milliseconds (0 uses the watcher default)")
}

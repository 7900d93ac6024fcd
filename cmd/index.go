package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shivasurya/semindex/internal/analytics"
	"github.com/shivasurya/semindex/internal/cache"
	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/config"
	"github.com/shivasurya/semindex/internal/discovery"
	"github.com/shivasurya/semindex/internal/filecache"
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/indexcache"
	"github.com/shivasurya/semindex/internal/modresolve"
	"github.com/shivasurya/semindex/internal/output"
	"github.com/shivasurya/semindex/internal/project"
)

var indexCmd = &cobra.Command{
	Use:   "index <path>",
	Short: "Build a semantic index over a project directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.IndexCommand)

		root := args[0]
		logger := output.NewLogger(verbosityFromFlags(cmd))
		logger.Banner(Version)

		files, err := discovery.DiscoverFiles(root, discovery.Options{})
		if err != nil {
			return fmt.Errorf("index: %w", err)
		}
		logger.Statistic("discovered %d files under %s", len(files), root)

		fc := filecache.New(filecache.DefaultConfig())
		defer fc.Close()

		semCache, err := cache.New(0)
		if err != nil {
			return fmt.Errorf("index: %w", err)
		}

		cachePath := settings.IndexCachePath
		if cachePath == "" {
			cachePath = config.DefaultIndexCachePath()
		}
		runCache, err := indexcache.Open(cachePath, logger.IsDebug())
		if err != nil {
			logger.Warning("index run cache unavailable: %v", err)
			runCache = nil
		} else {
			defer runCache.Close()
		}

		engine, err := capture.NewEngine()
		if err != nil {
			return fmt.Errorf("index: %w", err)
		}

		proj := project.New(engine, fc, modresolve.New(root), loggingStatus{logger})
		proj.SetSemanticCache(semCache)

		toProcess := filterNeedsReindex(files, fc, runCache, logger)

		_ = logger.StartProgress("indexing", len(toProcess))
		stop := logger.StartTiming("index")
		errs := proj.ProcessFiles(toProcess)
		stop()
		_ = logger.FinishProgress()

		for _, e := range errs {
			logger.Warning("%v", e)
			analytics.ReportEvent(analytics.ErrorIndexingFile)
		}

		logger.Statistic("indexed %d files (%d errors) in %s", len(toProcess), len(errs), logger.GetTiming("index"))
		logger.PrintTimingSummary()

		if runCache != nil {
			recordReindexed(toProcess, fc, runCache, proj)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

// loggingStatus adapts output.Logger to project.StatusReporter.
type loggingStatus struct {
	logger *output.Logger
}

func (s loggingStatus) FileStarted(workerID int, file ids.FilePath) {
	s.logger.Debug("worker %d: started %s", workerID, file)
}

func (s loggingStatus) FileDone(workerID int, file ids.FilePath) {
	s.logger.Debug("worker %d: done %s", workerID, file)
	_ = s.logger.UpdateProgress(1)
}

func verbosityFromFlags(cmd *cobra.Command) output.VerbosityLevel {
	count, _ := cmd.Root().PersistentFlags().GetCount("verbose")
	switch {
	case count >= 2:
		return output.VerbosityDebug
	case count == 1:
		return output.VerbosityVerbose
	default:
		return output.VerbosityDefault
	}
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func filterNeedsReindex(files []string, fc *filecache.Cache, runCache *indexcache.Store, logger *output.Logger) []ids.FilePath {
	out := make([]ids.FilePath, 0, len(files))
	for _, f := range files {
		path := ids.FilePath(f)
		if runCache == nil {
			out = append(out, path)
			continue
		}
		content, err := fc.ReadFile(path)
		if err != nil {
			logger.Warning("skip %s: %v", f, err)
			continue
		}
		needs, err := runCache.NeedsReindex(path, hashContent(content))
		if err != nil || needs {
			out = append(out, path)
		}
	}
	return out
}

func recordReindexed(files []ids.FilePath, fc *filecache.Cache, runCache *indexcache.Store, proj *project.Project) {
	for _, f := range files {
		content, err := fc.ReadFile(f)
		if err != nil {
			continue
		}
		lang, _ := proj.LanguageForExt(filepath.Ext(string(f)))
		_ = runCache.Record(f, hashContent(content), string(lang))
	}
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shivasurya/semindex/internal/analytics"
	"github.com/shivasurya/semindex/internal/capture"
	"github.com/shivasurya/semindex/internal/discovery"
	"github.com/shivasurya/semindex/internal/filecache"
	"github.com/shivasurya/semindex/internal/ids"
	"github.com/shivasurya/semindex/internal/modresolve"
	"github.com/shivasurya/semindex/internal/output"
	"github.com/shivasurya/semindex/internal/project"
	"github.com/shivasurya/semindex/internal/query"
	"github.com/shivasurya/semindex/internal/semantic"
)

var queryCmd = &cobra.Command{
	Use:   "query <path>",
	Short: "Index a project and filter its definitions with an expr-lang expression",
	Long: `Indexes path and evaluates --expr against every definition, e.g.:

  semindex query . --expr 'GetKind() == "function" && IsExported()'

An empty --expr matches every definition.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.QueryCommand)

		root := args[0]
		expr, _ := cmd.Flags().GetString("expr")
		outputFile, _ := cmd.Flags().GetString("output-file")
		logger := output.NewLogger(verbosityFromFlags(cmd))
		logger.Banner(Version)

		files, err := discovery.DiscoverFiles(root, discovery.Options{})
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}

		fc := filecache.New(filecache.DefaultConfig())
		defer fc.Close()

		engine, err := capture.NewEngine()
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}

		proj := project.New(engine, fc, modresolve.New(root), nil)

		idsFiles := make([]ids.FilePath, len(files))
		for i, f := range files {
			idsFiles[i] = ids.FilePath(f)
		}
		if errs := proj.ProcessFiles(idsFiles); len(errs) > 0 {
			for _, e := range errs {
				logger.Warning("%v", e)
			}
		}

		candidates := make([]*semantic.Definition, 0, len(proj.Defs.BySymbolID))
		for _, def := range proj.Defs.BySymbolID {
			candidates = append(candidates, def)
		}

		matched, err := query.Filter(candidates, expr)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}

		result, err := formatDefinitions(matched)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}

		if outputFile != "" {
			return os.WriteFile(outputFile, []byte(result), 0o644)
		}
		fmt.Println(result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringP("expr", "e", "", "expr-lang boolean expression to filter definitions")
	queryCmd.Flags().StringP("output-file", "f", "", "Write the JSON result to this file instead of stdout")
}

type definitionSummary struct {
	SymbolID string `json:"symbol_id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

func formatDefinitions(defs []*semantic.Definition) (string, error) {
	out := make([]definitionSummary, len(defs))
	for i, def := range defs {
		out[i] = definitionSummary{
			SymbolID: string(def.SymbolID),
			Name:     string(def.Name),
			Kind:     string(def.Kind),
			File:     string(def.Location.FilePath),
			Line:     def.Location.StartLine,
		}
	}
	body, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

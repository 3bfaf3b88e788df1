package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cogscan/cogscan/app"
	"github.com/cogscan/cogscan/domain"
	"github.com/cogscan/cogscan/internal/config"
	"github.com/cogscan/cogscan/service"
	"github.com/spf13/cobra"
)

var (
	outputFormat    string
	jsonOutput      bool
	outputPath      string
	configPath      string
	showDetails     bool
	minScore        int
	maxScore        int
	sortBy          string
	nestedFunctions string
	workers         int
	noRecursive     bool
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [path...]",
		Short: "Score JavaScript/TypeScript files by cognitive complexity",
		Long: `Score every function in the given files or directories by cognitive
complexity and report per-file and project totals with severity tiers
and cumulative contribution percentages.

Examples:
  cogscan analyze src/
  cogscan analyze --details --min-score 10 src/
  cogscan analyze --format json src/
  cogscan analyze --nested-functions fold src/`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text",
		"Output format: text, json, yaml, csv")
	cmd.Flags().BoolVar(&jsonOutput, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().BoolVarP(&showDetails, "details", "d", false,
		"Show per-increment score breakdown")
	cmd.Flags().IntVar(&minScore, "min-score", config.DefaultMinScoreFilter,
		"Hide functions scoring below this value")
	cmd.Flags().IntVar(&maxScore, "max-score", config.DefaultMaxScoreLimit,
		"Hide functions scoring above this value (0 = no limit)")
	cmd.Flags().StringVar(&sortBy, "sort", string(domain.SortByComplexity),
		"Sort functions by: complexity, name, location")
	cmd.Flags().StringVar(&nestedFunctions, "nested-functions", "",
		"Nested function handling: separate, fold")
	cmd.Flags().IntVar(&workers, "workers", 0,
		"Number of concurrent scoring workers (0 = CPU count)")
	cmd.Flags().BoolVar(&noRecursive, "no-recursive", false,
		"Do not descend into subdirectories")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	loader := service.NewConfigurationLoader()

	var base *domain.AnalysisRequest
	if configPath != "" {
		var err error
		base, err = loader.LoadConfig(configPath)
		if err != nil {
			return err
		}
	} else {
		base = loader.LoadDefaultConfig()
	}

	override := &domain.AnalysisRequest{
		Paths:        args,
		OutputWriter: os.Stdout,
		OutputPath:   outputPath,
		ConfigPath:   configPath,
	}

	req := *loader.MergeConfig(base, override)
	applyAnalyzeFlagOverrides(cmd, &req)
	if req.OutputPath != "" {
		req.OutputWriter = nil
	}

	// Progress bars go to stderr, so they stay out of piped text output
	pm := service.NewProgressManager(req.OutputFormat == domain.OutputFormatText)
	defer pm.Close()

	svc := service.NewComplexityServiceWithProgress(nil, pm)
	uc, err := app.NewComplexityUseCaseBuilder().
		WithService(svc).
		WithFormatter(service.NewOutputFormatter()).
		Build()
	if err != nil {
		return err
	}

	_, err = uc.Execute(context.Background(), req)
	return err
}

// applyAnalyzeFlagOverrides copies explicitly passed flag values into the
// request. A flag set on the command line wins over the config file even
// when it carries its default value.
func applyAnalyzeFlagOverrides(cmd *cobra.Command, req *domain.AnalysisRequest) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		req.OutputFormat = domain.OutputFormat(outputFormat)
	}
	if jsonOutput {
		req.OutputFormat = domain.OutputFormatJSON
	}
	if flags.Changed("details") {
		req.ShowDetails = showDetails
	}
	if flags.Changed("min-score") {
		req.MinScore = minScore
	}
	if flags.Changed("max-score") {
		req.MaxScore = maxScore
	}
	if flags.Changed("sort") {
		req.SortBy = domain.SortCriteria(sortBy)
	}
	if flags.Changed("nested-functions") {
		req.NestedFunctions = domain.NestedFunctionMode(nestedFunctions)
	}
	if flags.Changed("workers") {
		req.Workers = workers
	}
	if noRecursive {
		req.Recursive = false
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cogscan/cogscan/app"
	"github.com/cogscan/cogscan/domain"
	"github.com/cogscan/cogscan/internal/config"
	"github.com/cogscan/cogscan/internal/version"
	"github.com/cogscan/cogscan/service"
	"github.com/spf13/cobra"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkMaxFunctionScore int
	checkMaxFileScore     int
	checkVerbose          bool
	checkJSON             bool
	checkConfigPath       string
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Fast complexity gate for CI/CD pipelines",
		Long: `Score the given paths and fail when any function or file exceeds the
configured complexity limits.

Exit codes:
  0 - All scores within limits
  1 - Limit(s) exceeded
  2 - Analysis error (file not found, config error, etc.)

Examples:
  # Basic check with defaults
  cogscan check src/

  # Strict per-function limit
  cogscan check --max-function-score 10 src/

  # JSON output for machine parsing
  cogscan check --json src/`,
		RunE:          runCheck,
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	cmd.Flags().IntVar(&checkMaxFunctionScore, "max-function-score", 0,
		"Maximum allowed cognitive complexity per function (0 = use config)")
	cmd.Flags().IntVar(&checkMaxFileScore, "max-file-score", 0,
		"Maximum allowed cognitive complexity per file (0 = use config)")
	cmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false,
		"Show detailed output")
	cmd.Flags().BoolVar(&checkJSON, "json", false,
		"Output results as JSON")
	cmd.Flags().StringVarP(&checkConfigPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &CheckExitError{Code: 2, Message: "no paths specified"}
	}

	startTime := time.Now()

	cfg, err := config.LoadConfigWithTarget(checkConfigPath, args[0])
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}

	// Flags win over config for the limits
	maxFunctionScore := cfg.Complexity.FunctionScoreLimit()
	if cmd.Flags().Changed("max-function-score") {
		maxFunctionScore = checkMaxFunctionScore
	}
	maxFileScore := cfg.Complexity.FileScoreLimit()
	if cmd.Flags().Changed("max-file-score") {
		maxFileScore = checkMaxFileScore
	}

	fileHelper := app.NewFileHelperWithOptions(cfg.Analysis.RespectGitignore)
	files, err := fileHelper.CollectJSFiles(args, cfg.Analysis.Recursive,
		cfg.Analysis.IncludePatterns, cfg.Analysis.ExcludePatterns)
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to collect files: %v", err)}
	}
	if len(files) == 0 {
		return &CheckExitError{Code: 2, Message: "no JavaScript/TypeScript files found"}
	}

	// Progress is auto-disabled for JSON output or non-TTY/CI
	pm := service.NewProgressManager(!checkJSON)
	defer pm.Close()

	svc := service.NewComplexityServiceWithProgress(&cfg.Complexity, pm)
	req := domain.AnalysisRequest{
		Paths:              files,
		FileThresholds:     cfg.Complexity.FileThresholds,
		FunctionThresholds: cfg.Complexity.FunctionThresholds,
		NestedFunctions:    domain.NestedFunctionMode(cfg.Complexity.NestedFunctions),
		SortBy:             domain.SortByComplexity,
		Workers:            cfg.Analysis.Workers,
	}

	resp, err := svc.Analyze(context.Background(), req)
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("complexity analysis failed: %v", err)}
	}

	result := &domain.CheckResult{
		Passed:     true,
		Violations: []domain.CheckViolation{},
		Summary: domain.CheckSummary{
			FilesAnalyzed: resp.Summary.FilesScored,
			FilesSkipped:  resp.Summary.FilesSkipped,
		},
	}

	evaluateScores(resp, maxFunctionScore, maxFileScore, result)

	return outputCheckResult(result, startTime, maxFunctionScore, maxFileScore)
}

// evaluateScores records a violation for every function and file above its limit
func evaluateScores(resp *domain.AnalysisResponse, maxFunctionScore, maxFileScore int, result *domain.CheckResult) {
	for _, file := range resp.Project.Files {
		for _, fn := range file.Functions {
			if maxFunctionScore > 0 && fn.Total > maxFunctionScore {
				result.Passed = false
				result.Summary.CriticalFunctions++
				result.Violations = append(result.Violations, domain.CheckViolation{
					Rule:      "max-function-score",
					Severity:  "error",
					Message:   fmt.Sprintf("Function '%s' has cognitive complexity %d", fn.Name, fn.Total),
					Location:  fmt.Sprintf("%s:%d", fn.FilePath, fn.StartLine),
					Actual:    strconv.Itoa(fn.Total),
					Threshold: strconv.Itoa(maxFunctionScore),
				})
			}
		}

		if maxFileScore > 0 && file.Total > maxFileScore {
			result.Passed = false
			result.Summary.CriticalFiles++
			result.Violations = append(result.Violations, domain.CheckViolation{
				Rule:      "max-file-score",
				Severity:  "error",
				Message:   fmt.Sprintf("File '%s' has cognitive complexity %d", file.Path, file.Total),
				Location:  file.Path,
				Actual:    strconv.Itoa(file.Total),
				Threshold: strconv.Itoa(maxFileScore),
			})
		}
	}
}

func outputCheckResult(result *domain.CheckResult, startTime time.Time, maxFunctionScore, maxFileScore int) error {
	result.Duration = time.Since(startTime).Milliseconds()
	result.GeneratedAt = time.Now().Format(time.RFC3339)
	result.Version = version.Version
	result.ExitCode = 0
	if !result.Passed {
		result.ExitCode = 1
	}
	result.Summary.TotalViolations = len(result.Violations)

	if checkJSON {
		return outputCheckJSON(result)
	}

	return outputCheckText(result, maxFunctionScore, maxFileScore)
}

func outputCheckText(result *domain.CheckResult, maxFunctionScore, maxFileScore int) error {
	if result.Passed {
		fmt.Println("PASS: All complexity checks passed")
		if checkVerbose {
			fmt.Printf("  Files analyzed: %d\n", result.Summary.FilesAnalyzed)
			fmt.Printf("  Files skipped: %d\n", result.Summary.FilesSkipped)
			fmt.Printf("  Function limit: %d\n", maxFunctionScore)
			fmt.Printf("  File limit: %d\n", maxFileScore)
			fmt.Printf("  Duration: %dms\n", result.Duration)
		}
		return nil
	}

	fmt.Println("FAIL: Complexity check failed")
	fmt.Printf("  Violations: %d\n", result.Summary.TotalViolations)

	for _, v := range result.Violations {
		severity := "ERROR"
		if v.Severity == "warning" {
			severity = "WARN"
		}
		fmt.Printf("  [%s] %s: %s\n", severity, v.Rule, v.Message)
		if checkVerbose && v.Location != "" {
			fmt.Printf("         at %s\n", v.Location)
		}
	}

	if checkVerbose {
		fmt.Printf("\nSummary:\n")
		fmt.Printf("  Files: %d\n", result.Summary.FilesAnalyzed)
		fmt.Printf("  Functions over limit: %d\n", result.Summary.CriticalFunctions)
		fmt.Printf("  Files over limit: %d\n", result.Summary.CriticalFiles)
		fmt.Printf("  Duration: %dms\n", result.Duration)
	}

	return &CheckExitError{Code: 1, Message: ""}
}

func outputCheckJSON(result *domain.CheckResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to encode JSON: %v", err)}
	}

	if !result.Passed {
		return &CheckExitError{Code: 1, Message: ""}
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/cogscan/cogscan/domain"
	"github.com/cogscan/cogscan/internal/analyzer"
	"github.com/cogscan/cogscan/internal/config"
	"github.com/cogscan/cogscan/internal/parser"
	"github.com/cogscan/cogscan/internal/version"
)

// ComplexityServiceImpl implements the ComplexityService interface
type ComplexityServiceImpl struct {
	config   *config.ComplexityConfig
	progress domain.ProgressManager
}

// NewComplexityService creates a new complexity service implementation
func NewComplexityService(cfg *config.ComplexityConfig) *ComplexityServiceImpl {
	return &ComplexityServiceImpl{
		config: cfg,
	}
}

// NewComplexityServiceWithProgress creates a new complexity service with progress reporting
func NewComplexityServiceWithProgress(cfg *config.ComplexityConfig, pm domain.ProgressManager) *ComplexityServiceImpl {
	return &ComplexityServiceImpl{
		config:   cfg,
		progress: pm,
	}
}

// fileResult is the outcome of scoring one file. Exactly one of report and
// skipped is set.
type fileResult struct {
	report   *domain.FileReport
	skipped  *domain.SkippedFile
	warnings []string
}

// Analyze scores every requested file and aggregates the results into a
// project report. Files are scored concurrently; determinism comes from the
// sort in the aggregation step, never from scheduling order.
func (s *ComplexityServiceImpl) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	if len(req.Paths) == 0 {
		return nil, domain.NewInvalidInputError("no files to analyze", nil)
	}
	s.applyConfigDefaults(&req)

	// Each file is an independent scoring task; results land in a slot per
	// input index so collection needs no synchronization
	results := make([]fileResult, len(req.Paths))
	tasks := make([]ScoreTask, len(req.Paths))
	for i, filePath := range req.Paths {
		i, filePath := i, filePath
		tasks[i] = ScoreTask{
			Name: filePath,
			Run: func(taskCtx context.Context) error {
				results[i] = s.scoreFile(taskCtx, filePath, req)
				return nil
			},
		}
	}

	executor := NewParallelExecutorWithProgress(req.Workers, s.progress)
	if err := executor.Execute(ctx, "Scoring cognitive complexity", tasks); err != nil {
		return nil, domain.NewAnalysisError("complexity analysis did not complete", err)
	}

	var fileReports []domain.FileReport
	var skipped []domain.SkippedFile
	var warnings []string
	var errs []string

	for _, r := range results {
		warnings = append(warnings, r.warnings...)
		if r.skipped != nil {
			skipped = append(skipped, *r.skipped)
			errs = append(errs, fmt.Sprintf("[%s] %s", r.skipped.Path, r.skipped.Reason))
			continue
		}
		fileReports = append(fileReports, *r.report)
	}

	project := AggregateProject(fileReports, skipped)
	summary := s.generateSummary(project)

	// Apply the reporting filter and sort to the per-file listings after
	// aggregation, so file totals always cover every function
	for i := range project.Files {
		project.Files[i].Functions = s.sortFunctions(
			s.filterFunctions(project.Files[i].Functions, req), req.SortBy)
		if !req.ShowDetails {
			for j := range project.Files[i].Functions {
				project.Files[i].Functions[j].Breakdown = nil
			}
		}
	}

	return &domain.AnalysisResponse{
		Project:     project,
		Summary:     summary,
		Warnings:    warnings,
		Errors:      errs,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
		Config:      s.buildConfigForResponse(req),
	}, nil
}

// applyConfigDefaults fills unset request fields from the service config
func (s *ComplexityServiceImpl) applyConfigDefaults(req *domain.AnalysisRequest) {
	if req.FileThresholds == (domain.Thresholds{}) {
		if s.config != nil {
			req.FileThresholds = s.config.FileThresholds
		} else {
			req.FileThresholds = domain.DefaultFileThresholds()
		}
	}
	if req.FunctionThresholds == (domain.Thresholds{}) {
		if s.config != nil {
			req.FunctionThresholds = s.config.FunctionThresholds
		} else {
			req.FunctionThresholds = domain.DefaultFunctionThresholds()
		}
	}
	if req.NestedFunctions == "" {
		if s.config != nil && s.config.NestedFunctions != "" {
			req.NestedFunctions = s.config.NestedFunctionMode()
		} else {
			req.NestedFunctions = domain.NestedFunctionSeparate
		}
	}
}

// AnalyzeFile analyzes a single JavaScript/TypeScript file
func (s *ComplexityServiceImpl) AnalyzeFile(ctx context.Context, filePath string, req domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	singleFileReq := req
	singleFileReq.Paths = []string{filePath}

	return s.Analyze(ctx, singleFileReq)
}

// scoreFile parses and scores one file. Failures never abort the run; they
// turn into a skipped entry with a diagnostic.
func (s *ComplexityServiceImpl) scoreFile(ctx context.Context, filePath string, req domain.AnalysisRequest) fileResult {
	parsed, err := parser.ParseFile(ctx, filePath)
	if err != nil {
		reason := domain.NewParseError(filePath, err)
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			reason = domain.NewFileNotFoundError(filePath, err)
		}
		return fileResult{skipped: &domain.SkippedFile{
			Path:   filePath,
			Reason: reason.Error(),
		}}
	}

	var warnings []string
	for _, pe := range parsed.Errors {
		warnings = append(warnings, fmt.Sprintf("[%s] %s", filePath, pe.Error()))
	}

	cognitive := analyzer.NewCognitiveAnalyzer(analyzer.NestedFunctionMode(req.NestedFunctions))
	scores := cognitive.AnalyzeFile(parsed.AST)

	functions := make([]domain.FunctionComplexity, 0, len(scores))
	for _, score := range scores {
		functions = append(functions, s.toFunctionComplexity(filePath, score, req))
	}

	report := AggregateFile(filePath, functions, req.FileThresholds)
	return fileResult{report: &report, warnings: warnings}
}

// toFunctionComplexity converts an analyzer score to the domain model
func (s *ComplexityServiceImpl) toFunctionComplexity(filePath string, score *analyzer.FunctionScore, req domain.AnalysisRequest) domain.FunctionComplexity {
	breakdown := make([]domain.ScoreIncrement, 0, len(score.Increments))
	for _, inc := range score.Increments {
		breakdown = append(breakdown, domain.ScoreIncrement{
			Reason:  string(inc.Reason),
			Amount:  inc.Amount,
			Nesting: inc.Nesting,
			Line:    inc.Location.StartLine,
		})
	}

	var fnWarnings []string
	for _, w := range score.Warnings {
		fnWarnings = append(fnWarnings, fmt.Sprintf("%s: %s (%s)", w.Location.String(), w.Message, w.NodeKind))
	}

	return domain.FunctionComplexity{
		Name:        score.Name,
		FilePath:    filePath,
		StartLine:   score.Location.StartLine,
		StartColumn: score.Location.StartCol,
		EndLine:     score.Location.EndLine,
		Total:       score.Total,
		Breakdown:   breakdown,
		Severity:    req.FunctionThresholds.Classify(score.Total),
		Warnings:    fnWarnings,
	}
}

// filterFunctions filters the function listing based on request criteria
func (s *ComplexityServiceImpl) filterFunctions(functions []domain.FunctionComplexity, req domain.AnalysisRequest) []domain.FunctionComplexity {
	filtered := make([]domain.FunctionComplexity, 0, len(functions))
	for _, fn := range functions {
		if fn.Total < req.MinScore {
			continue
		}
		if req.MaxScore > 0 && fn.Total > req.MaxScore {
			continue
		}
		filtered = append(filtered, fn)
	}
	return filtered
}

// sortFunctions sorts the function listing based on the specified criteria
func (s *ComplexityServiceImpl) sortFunctions(functions []domain.FunctionComplexity, sortBy domain.SortCriteria) []domain.FunctionComplexity {
	sorted := make([]domain.FunctionComplexity, len(functions))
	copy(sorted, functions)

	switch sortBy {
	case domain.SortByName:
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Name < sorted[j].Name
		})
	case domain.SortByLocation:
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].StartLine < sorted[j].StartLine
		})
	default:
		// Default: sort by score descending, ties by source position
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Total != sorted[j].Total {
				return sorted[i].Total > sorted[j].Total
			}
			return sorted[i].StartLine < sorted[j].StartLine
		})
	}

	return sorted
}

// generateSummary computes aggregate statistics over every scored function
func (s *ComplexityServiceImpl) generateSummary(project domain.ProjectReport) domain.AnalysisSummary {
	summary := domain.AnalysisSummary{
		FilesScored:  project.FilesScored,
		FilesSkipped: project.FilesSkipped,
	}

	totalScore := 0
	for _, file := range project.Files {
		for _, fn := range file.Functions {
			summary.TotalFunctions++
			totalScore += fn.Total

			if fn.Total > summary.MaxScore {
				summary.MaxScore = fn.Total
			}

			switch fn.Severity {
			case domain.SeverityLow:
				summary.LowFunctions++
			case domain.SeverityMedium:
				summary.MediumFunctions++
			case domain.SeverityHigh:
				summary.HighFunctions++
			case domain.SeverityCritical:
				summary.CriticalFunctions++
			}
		}
	}

	if summary.TotalFunctions > 0 {
		summary.AverageScore = float64(totalScore) / float64(summary.TotalFunctions)
	}

	return summary
}

// buildConfigForResponse builds the configuration section for the response
func (s *ComplexityServiceImpl) buildConfigForResponse(req domain.AnalysisRequest) map[string]interface{} {
	return map[string]interface{}{
		"file_thresholds":     req.FileThresholds,
		"function_thresholds": req.FunctionThresholds,
		"nested_functions":    string(req.NestedFunctions),
		"sort_by":             string(req.SortBy),
		"min_score":           req.MinScore,
	}
}

var _ domain.ComplexityService = (*ComplexityServiceImpl)(nil)

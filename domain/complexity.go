package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// SortCriteria represents the criteria for sorting per-function results
type SortCriteria string

const (
	SortByComplexity SortCriteria = "complexity"
	SortByName       SortCriteria = "name"
	SortByLocation   SortCriteria = "location"
)

// NestedFunctionMode controls how nested function bodies are scored
type NestedFunctionMode string

const (
	// NestedFunctionSeparate scores each nested function as its own scope
	NestedFunctionSeparate NestedFunctionMode = "separate"
	// NestedFunctionFold accumulates nested bodies into the enclosing scope
	NestedFunctionFold NestedFunctionMode = "fold"
)

// AnalysisRequest represents a request for cognitive complexity analysis
type AnalysisRequest struct {
	// Input files or directories to analyze
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string
	ShowDetails  bool

	// Filtering and sorting of the per-function listing
	MinScore int
	MaxScore int // 0 means no limit
	SortBy   SortCriteria

	// Severity thresholds, per granularity
	FileThresholds     Thresholds
	FunctionThresholds Thresholds

	// Scope handling
	NestedFunctions NestedFunctionMode

	// Configuration
	ConfigPath string

	// Analysis options
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Parallelism; 0 picks a default from the host CPU count
	Workers int
}

// ScoreIncrement is one entry of a function's score breakdown. Amount
// already includes the nesting penalty for the rule application.
type ScoreIncrement struct {
	Reason  string `json:"reason" yaml:"reason"`
	Amount  int    `json:"amount" yaml:"amount"`
	Nesting int    `json:"nesting" yaml:"nesting"`
	Line    int    `json:"line" yaml:"line"`
}

// FunctionComplexity represents the scoring result for a single function
type FunctionComplexity struct {
	Name        string `json:"name" yaml:"name"`
	FilePath    string `json:"file_path" yaml:"file_path"`
	StartLine   int    `json:"start_line" yaml:"start_line"`
	StartColumn int    `json:"start_column" yaml:"start_column"`
	EndLine     int    `json:"end_line" yaml:"end_line"`

	Total     int              `json:"total" yaml:"total"`
	Breakdown []ScoreIncrement `json:"breakdown,omitempty" yaml:"breakdown,omitempty"`
	Severity  SeverityTier     `json:"severity" yaml:"severity"`

	// Non-fatal diagnostics recorded while scoring this function
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// FileReport aggregates the function scores of one file. Cumulative fields
// are filled in by project aggregation, in descending-total order.
type FileReport struct {
	Path      string               `json:"path" yaml:"path"`
	Functions []FunctionComplexity `json:"functions" yaml:"functions"`
	Total     int                  `json:"total" yaml:"total"`
	Severity  SeverityTier         `json:"severity" yaml:"severity"`

	CumulativeTotal   int     `json:"cumulative_total" yaml:"cumulative_total"`
	CumulativePercent float64 `json:"cumulative_percent" yaml:"cumulative_percent"`
}

// SkippedFile records a file excluded from the project total
type SkippedFile struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// ProjectReport is the whole-project aggregation: files sorted by total
// descending (ties broken by ascending path) with running cumulative
// percentages of the project total
type ProjectReport struct {
	Files        []FileReport  `json:"files" yaml:"files"`
	Total        int           `json:"total" yaml:"total"`
	FilesScored  int           `json:"files_scored" yaml:"files_scored"`
	FilesSkipped int           `json:"files_skipped" yaml:"files_skipped"`
	Skipped      []SkippedFile `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// AnalysisSummary represents aggregate statistics over all scored functions
type AnalysisSummary struct {
	TotalFunctions int     `json:"total_functions" yaml:"total_functions"`
	FilesScored    int     `json:"files_scored" yaml:"files_scored"`
	FilesSkipped   int     `json:"files_skipped" yaml:"files_skipped"`
	AverageScore   float64 `json:"average_score" yaml:"average_score"`
	MaxScore       int     `json:"max_score" yaml:"max_score"`

	// Tier distribution at function granularity
	LowFunctions      int `json:"low_functions" yaml:"low_functions"`
	MediumFunctions   int `json:"medium_functions" yaml:"medium_functions"`
	HighFunctions     int `json:"high_functions" yaml:"high_functions"`
	CriticalFunctions int `json:"critical_functions" yaml:"critical_functions"`
}

// AnalysisResponse represents the complete analysis result
type AnalysisResponse struct {
	Project ProjectReport   `json:"project" yaml:"project"`
	Summary AnalysisSummary `json:"summary" yaml:"summary"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	GeneratedAt string      `json:"generated_at" yaml:"generated_at"`
	Version     string      `json:"version" yaml:"version"`
	Config      interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// ComplexityService defines the core business logic for complexity analysis
type ComplexityService interface {
	// Analyze performs complexity analysis on the given request
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error)

	// AnalyzeFile analyzes a single JavaScript/TypeScript file
	AnalyzeFile(ctx context.Context, filePath string, req AnalysisRequest) (*AnalysisResponse, error)
}

// JSFileReader defines JavaScript/TypeScript file collection operations
type JSFileReader interface {
	CollectJSFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)
	ReadFile(path string) ([]byte, error)
	IsValidJSFile(path string) bool
	FileExists(path string) (bool, error)
}

// OutputFormatter defines the interface for formatting analysis results
type OutputFormatter interface {
	// Format formats the analysis response according to the specified format
	Format(response *AnalysisResponse, format OutputFormat) (string, error)

	// Write writes the formatted output to the writer
	Write(response *AnalysisResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader defines the interface for loading configuration
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*AnalysisRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *AnalysisRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *AnalysisRequest, override *AnalysisRequest) *AnalysisRequest
}

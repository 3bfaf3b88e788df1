package service

import (
	"github.com/cogscan/cogscan/domain"
	"github.com/cogscan/cogscan/internal/config"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.AnalysisRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	return c.convertToAnalysisRequest(cfg), nil
}

// LoadDefaultConfig loads configuration from a discovered config file, falling
// back to built-in defaults when none is found
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.AnalysisRequest {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err == nil {
		return c.convertToAnalysisRequest(cfg)
	}

	cfg = config.DefaultConfig()
	return c.convertToAnalysisRequest(cfg)
}

// MergeConfig merges CLI flags into a base configuration. Zero values in the
// override leave the base value in place; paths and writer always win when set.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.AnalysisRequest, override *domain.AnalysisRequest) *domain.AnalysisRequest {
	merged := *base

	// Paths come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}

	// Output configuration
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if override.ShowDetails {
		merged.ShowDetails = override.ShowDetails
	}

	// Filtering and sorting
	if override.MinScore > 0 {
		merged.MinScore = override.MinScore
	}
	if override.MaxScore > 0 {
		merged.MaxScore = override.MaxScore
	}
	if override.SortBy != "" {
		merged.SortBy = override.SortBy
	}

	// Severity thresholds
	if override.FileThresholds != (domain.Thresholds{}) {
		merged.FileThresholds = override.FileThresholds
	}
	if override.FunctionThresholds != (domain.Thresholds{}) {
		merged.FunctionThresholds = override.FunctionThresholds
	}

	// Scoring behavior
	if override.NestedFunctions != "" {
		merged.NestedFunctions = override.NestedFunctions
	}

	// File collection
	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}
	if override.Workers > 0 {
		merged.Workers = override.Workers
	}

	// Config path is always from override if provided
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// convertToAnalysisRequest converts a Config to an AnalysisRequest
func (c *ConfigurationLoaderImpl) convertToAnalysisRequest(cfg *config.Config) *domain.AnalysisRequest {
	return &domain.AnalysisRequest{
		// Paths are set by the caller, not from config
		Paths: []string{},

		// Output settings
		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		ShowDetails:  cfg.Output.ShowDetails,
		SortBy:       domain.SortCriteria(cfg.Output.SortBy),
		MinScore:     cfg.Output.MinScore,
		MaxScore:     cfg.Output.MaxScore,

		// Severity
		FileThresholds:     cfg.Complexity.FileThresholds,
		FunctionThresholds: cfg.Complexity.FunctionThresholds,

		// Scoring behavior
		NestedFunctions: domain.NestedFunctionMode(cfg.Complexity.NestedFunctions),

		// File collection
		Recursive:       cfg.Analysis.Recursive,
		IncludePatterns: cfg.Analysis.IncludePatterns,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
		Workers:         cfg.Analysis.Workers,
	}
}

var _ domain.ConfigurationLoader = (*ConfigurationLoaderImpl)(nil)

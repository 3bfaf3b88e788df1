package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/cogscan/cogscan/domain"
	"github.com/cogscan/cogscan/internal/constants"
)

// Default filtering options
const (
	// DefaultMinScoreFilter defines the minimum score to report.
	// Functions scoring 0 carry no cognitive load worth listing.
	DefaultMinScoreFilter = 0

	// DefaultMaxScoreLimit defines no upper limit for reporting
	DefaultMaxScoreLimit = 0
)

// Config represents the main configuration structure
type Config struct {
	// Complexity holds cognitive complexity scoring configuration
	Complexity ComplexityConfig `json:"complexity" mapstructure:"complexity" yaml:"complexity"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds file collection configuration
	Analysis AnalysisConfig `json:"analysis,omitempty" mapstructure:"analysis" yaml:"analysis"`
}

// ComplexityConfig holds configuration for cognitive complexity scoring
type ComplexityConfig struct {
	// FileThresholds are the severity boundaries applied to file totals
	FileThresholds domain.Thresholds `json:"fileThresholds" mapstructure:"file_thresholds" yaml:"file_thresholds"`

	// FunctionThresholds are the stricter boundaries applied per function
	FunctionThresholds domain.Thresholds `json:"functionThresholds" mapstructure:"function_thresholds" yaml:"function_thresholds"`

	// NestedFunctions selects how nested function bodies are scored:
	// "separate" gives each its own scope, "fold" accumulates them into
	// the enclosing function
	NestedFunctions string `json:"nestedFunctions" mapstructure:"nested_functions" yaml:"nested_functions"`

	// MaxFunctionScore fails the check command when any function exceeds
	// it; 0 falls back to the function high threshold
	MaxFunctionScore int `json:"maxFunctionScore" mapstructure:"max_function_score" yaml:"max_function_score"`

	// MaxFileScore fails the check command when any file exceeds it;
	// 0 falls back to the file high threshold
	MaxFileScore int `json:"maxFileScore" mapstructure:"max_file_score" yaml:"max_file_score"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether to show the per-function breakdown
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`

	// SortBy specifies how to sort functions: complexity, name, location
	SortBy string `json:"sort_by" mapstructure:"sort_by" yaml:"sort_by"`

	// MinScore is the minimum function score to report
	MinScore int `json:"min_score" mapstructure:"min_score" yaml:"min_score"`

	// MaxScore is the maximum function score to report; 0 means no limit
	MaxScore int `json:"max_score" mapstructure:"max_score" yaml:"max_score"`
}

// AnalysisConfig holds file collection configuration
type AnalysisConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies file patterns to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether to analyze directories recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// RespectGitignore skips files matched by .gitignore rules
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`

	// Workers caps the number of files scored concurrently; 0 uses the
	// host CPU count
	Workers int `json:"workers" mapstructure:"workers" yaml:"workers"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Complexity: ComplexityConfig{
			FileThresholds:     domain.DefaultFileThresholds(),
			FunctionThresholds: domain.DefaultFunctionThresholds(),
			NestedFunctions:    string(domain.NestedFunctionSeparate),
		},
		Output: OutputConfig{
			Format:   "text",
			SortBy:   "complexity",
			MinScore: DefaultMinScoreFilter,
			MaxScore: DefaultMaxScoreLimit,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{
				"**/*.js",
				"**/*.jsx",
				"**/*.ts",
				"**/*.tsx",
				"**/*.mjs",
				"**/*.cjs",
			},
			ExcludePatterns: []string{
				"**/node_modules/**",
				"**/dist/**",
				"**/build/**",
				"**/*.min.js",
				"**/*.bundle.js",
			},
			Recursive:        true,
			RespectGitignore: true,
		},
	}
}

// LoadConfig loads configuration from the given path, or discovers one
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// Orchestrates discovery and loading but delegates specific concerns.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", configPath), err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, domain.NewConfigError("failed to unmarshal config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common locations.
// targetPath is the path being analyzed (a source file or directory).
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		constants.ConfigFileName,
		"cogscan.yml",
		".cogscan.yaml",
		".cogscan.yml",
		"cogscan.json",
		".cogscan.json",
	}

	// If targetPath is provided, search from there upward
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			// If it's a file, start from its directory
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			// Search from target directory up to the filesystem root.
			// Handle Windows volume roots (C:\) and UNC paths (\\server\share).
			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	// Check XDG config directory (Linux/Mac standard)
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	// Check ~/.config/cogscan/ (XDG default)
	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}

		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	// Check COGSCAN_CONFIG environment variable as fallback
	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values. Any failure here is fatal:
// scoring never starts with classification semantics undefined.
func (c *Config) Validate() error {
	if err := c.Complexity.FileThresholds.Validate(); err != nil {
		return domain.NewConfigError("invalid complexity.file_thresholds", err)
	}
	if err := c.Complexity.FunctionThresholds.Validate(); err != nil {
		return domain.NewConfigError("invalid complexity.function_thresholds", err)
	}

	switch domain.NestedFunctionMode(c.Complexity.NestedFunctions) {
	case domain.NestedFunctionSeparate, domain.NestedFunctionFold:
	default:
		return domain.NewConfigError(
			fmt.Sprintf("invalid complexity.nested_functions '%s', must be one of: separate, fold", c.Complexity.NestedFunctions), nil)
	}

	if c.Complexity.MaxFunctionScore < 0 {
		return domain.NewConfigError(
			fmt.Sprintf("complexity.max_function_score must be >= 0, got %d", c.Complexity.MaxFunctionScore), nil)
	}
	if c.Complexity.MaxFileScore < 0 {
		return domain.NewConfigError(
			fmt.Sprintf("complexity.max_file_score must be >= 0, got %d", c.Complexity.MaxFileScore), nil)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"csv":  true,
	}
	if !validFormats[c.Output.Format] {
		return domain.NewConfigError(
			fmt.Sprintf("invalid output.format '%s', must be one of: text, json, yaml, csv", c.Output.Format), nil)
	}

	validSortBy := map[string]bool{
		"complexity": true,
		"name":       true,
		"location":   true,
	}
	if !validSortBy[c.Output.SortBy] {
		return domain.NewConfigError(
			fmt.Sprintf("invalid output.sort_by '%s', must be one of: complexity, name, location", c.Output.SortBy), nil)
	}

	if c.Output.MinScore < 0 {
		return domain.NewConfigError(
			fmt.Sprintf("output.min_score must be >= 0, got %d", c.Output.MinScore), nil)
	}
	if c.Output.MaxScore < 0 {
		return domain.NewConfigError(
			fmt.Sprintf("output.max_score must be >= 0, got %d", c.Output.MaxScore), nil)
	}
	if c.Output.MaxScore > 0 && c.Output.MaxScore < c.Output.MinScore {
		return domain.NewConfigError(
			fmt.Sprintf("output.max_score (%d) must be >= min_score (%d) or 0 for no limit",
				c.Output.MaxScore, c.Output.MinScore), nil)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return domain.NewConfigError("analysis.include_patterns cannot be empty", nil)
	}
	if c.Analysis.Workers < 0 {
		return domain.NewConfigError(
			fmt.Sprintf("analysis.workers must be >= 0, got %d", c.Analysis.Workers), nil)
	}

	return nil
}

// FileTier classifies a file total with the configured thresholds
func (c *ComplexityConfig) FileTier(total int) domain.SeverityTier {
	return c.FileThresholds.Classify(total)
}

// FunctionTier classifies a function total with the configured thresholds
func (c *ComplexityConfig) FunctionTier(total int) domain.SeverityTier {
	return c.FunctionThresholds.Classify(total)
}

// FunctionScoreLimit returns the threshold the check command enforces per function
func (c *ComplexityConfig) FunctionScoreLimit() int {
	if c.MaxFunctionScore > 0 {
		return c.MaxFunctionScore
	}
	return c.FunctionThresholds.High
}

// FileScoreLimit returns the threshold the check command enforces per file
func (c *ComplexityConfig) FileScoreLimit() int {
	if c.MaxFileScore > 0 {
		return c.MaxFileScore
	}
	return c.FileThresholds.High
}

// NestedFunctionMode returns the configured scope handling mode
func (c *ComplexityConfig) NestedFunctionMode() domain.NestedFunctionMode {
	return domain.NestedFunctionMode(c.NestedFunctions)
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("complexity", config.Complexity)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)

	return v.WriteConfig()
}

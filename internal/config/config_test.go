package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cogscan/cogscan/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Complexity.FileThresholds != domain.DefaultFileThresholds() {
		t.Errorf("unexpected file thresholds: %+v", cfg.Complexity.FileThresholds)
	}
	if cfg.Complexity.FunctionThresholds != domain.DefaultFunctionThresholds() {
		t.Errorf("unexpected function thresholds: %+v", cfg.Complexity.FunctionThresholds)
	}
	if cfg.Complexity.NestedFunctions != "separate" {
		t.Errorf("expected separate nested-function mode, got %q", cfg.Complexity.NestedFunctions)
	}
	if !cfg.Analysis.Recursive {
		t.Error("expected recursive analysis by default")
	}
	if len(cfg.Analysis.IncludePatterns) == 0 {
		t.Error("expected default include patterns")
	}
}

func TestValidateRejectsNonMonotonicThresholds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name: "file thresholds descending",
			mutate: func(c *Config) {
				c.Complexity.FileThresholds = domain.Thresholds{Low: 25, Medium: 15, High: 5}
			},
		},
		{
			name: "function thresholds equal",
			mutate: func(c *Config) {
				c.Complexity.FunctionThresholds = domain.Thresholds{Low: 10, Medium: 10, High: 20}
			},
		},
		{
			name: "negative low",
			mutate: func(c *Config) {
				c.Complexity.FileThresholds.Low = -1
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var domainErr domain.DomainError
			if !errors.As(err, &domainErr) || domainErr.Code != domain.ErrCodeConfigError {
				t.Errorf("expected CONFIG_ERROR, got %v", err)
			}
		})
	}
}

func TestValidateRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad output format", func(c *Config) { c.Output.Format = "xml" }},
		{"bad sort criteria", func(c *Config) { c.Output.SortBy = "size" }},
		{"bad nested mode", func(c *Config) { c.Complexity.NestedFunctions = "inline" }},
		{"negative min score", func(c *Config) { c.Output.MinScore = -1 }},
		{"max below min", func(c *Config) { c.Output.MinScore = 10; c.Output.MaxScore = 5 }},
		{"empty include patterns", func(c *Config) { c.Analysis.IncludePatterns = nil }},
		{"negative workers", func(c *Config) { c.Analysis.Workers = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cogscan.yaml")
	content := `
complexity:
  file_thresholds:
    low: 8
    medium: 20
    high: 40
  nested_functions: fold
output:
  format: json
  sort_by: name
analysis:
  recursive: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Complexity.FileThresholds.Low != 8 || cfg.Complexity.FileThresholds.High != 40 {
		t.Errorf("file thresholds not loaded: %+v", cfg.Complexity.FileThresholds)
	}
	if cfg.Complexity.NestedFunctions != "fold" {
		t.Errorf("expected fold mode, got %q", cfg.Complexity.NestedFunctions)
	}
	if cfg.Output.Format != "json" || cfg.Output.SortBy != "name" {
		t.Errorf("output config not loaded: %+v", cfg.Output)
	}
	if cfg.Analysis.Recursive {
		t.Error("expected recursive=false from file")
	}
	// unspecified sections keep defaults
	if cfg.Complexity.FunctionThresholds != domain.DefaultFunctionThresholds() {
		t.Errorf("function thresholds should keep defaults: %+v", cfg.Complexity.FunctionThresholds)
	}
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cogscan.yaml")
	content := `
complexity:
  file_thresholds:
    low: 20
    medium: 10
    high: 30
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for non-monotonic thresholds")
	}
}

func TestLoadConfigMissingPathFallsBackToDefaults(t *testing.T) {
	// An isolated directory has no discoverable config file
	cfg, err := LoadConfigWithTarget("", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected default config, got format %q", cfg.Output.Format)
	}
}

func TestFindDefaultConfigWalksUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "components")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}
	configPath := filepath.Join(root, ".cogscan.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  format: yaml\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	found := findDefaultConfig(nested)
	if found != configPath {
		t.Errorf("expected %s, got %s", configPath, found)
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cogscan.yaml")

	cfg := DefaultConfig()
	cfg.Complexity.FileThresholds = domain.Thresholds{Low: 4, Medium: 12, High: 30}
	cfg.Output.Format = "csv"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Complexity.FileThresholds != cfg.Complexity.FileThresholds {
		t.Errorf("thresholds did not round-trip: %+v", loaded.Complexity.FileThresholds)
	}
	if loaded.Output.Format != "csv" {
		t.Errorf("format did not round-trip: %q", loaded.Output.Format)
	}
}

func TestScoreLimitFallbacks(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.Complexity.FunctionScoreLimit(); got != cfg.Complexity.FunctionThresholds.High {
		t.Errorf("expected fallback to function high threshold, got %d", got)
	}
	if got := cfg.Complexity.FileScoreLimit(); got != cfg.Complexity.FileThresholds.High {
		t.Errorf("expected fallback to file high threshold, got %d", got)
	}

	cfg.Complexity.MaxFunctionScore = 7
	cfg.Complexity.MaxFileScore = 50
	if got := cfg.Complexity.FunctionScoreLimit(); got != 7 {
		t.Errorf("expected explicit function limit 7, got %d", got)
	}
	if got := cfg.Complexity.FileScoreLimit(); got != 50 {
		t.Errorf("expected explicit file limit 50, got %d", got)
	}
}

func TestConfigTemplates(t *testing.T) {
	full := GetFullConfigTemplate(ProjectTypeReact, StrictnessStrict)
	for _, want := range []string{"file_thresholds", "function_thresholds", "node_modules", ".next"} {
		if !strings.Contains(full, want) {
			t.Errorf("full template missing %q", want)
		}
	}

	minimal := GetMinimalConfigTemplate()
	if !strings.Contains(minimal, "file_thresholds") {
		t.Error("minimal template missing thresholds section")
	}
}

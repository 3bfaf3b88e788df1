package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cogscan/cogscan/domain"
)

func TestLoadDefaultConfig(t *testing.T) {
	loader := NewConfigurationLoader()

	req := loader.LoadDefaultConfig()
	if req == nil {
		t.Fatal("LoadDefaultConfig returned nil")
	}
	if req.OutputFormat != domain.OutputFormatText {
		t.Errorf("default format should be text, got %s", req.OutputFormat)
	}
	if req.FunctionThresholds != domain.DefaultFunctionThresholds() {
		t.Errorf("default function thresholds should apply, got %+v", req.FunctionThresholds)
	}
	if req.NestedFunctions != domain.NestedFunctionSeparate {
		t.Errorf("default nested mode should be separate, got %s", req.NestedFunctions)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cogscan.yaml")
	content := `
complexity:
  function_thresholds:
    low: 3
    medium: 8
    high: 15
  nested_functions: fold
output:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loader := NewConfigurationLoader()
	req, err := loader.LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Thresholds{Low: 3, Medium: 8, High: 15}
	if req.FunctionThresholds != want {
		t.Errorf("function thresholds = %+v, want %+v", req.FunctionThresholds, want)
	}
	if req.NestedFunctions != domain.NestedFunctionFold {
		t.Errorf("nested mode should be fold, got %s", req.NestedFunctions)
	}
	if req.OutputFormat != domain.OutputFormatJSON {
		t.Errorf("format should be json, got %s", req.OutputFormat)
	}
	// Untouched sections keep their defaults
	if req.FileThresholds != domain.DefaultFileThresholds() {
		t.Errorf("file thresholds should keep defaults, got %+v", req.FileThresholds)
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cogscan.yaml")
	content := `
complexity:
  function_thresholds:
    low: 10
    medium: 5
    high: 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loader := NewConfigurationLoader()
	if _, err := loader.LoadConfig(path); err == nil {
		t.Fatal("expected error for non-ascending thresholds")
	}
}

func TestMergeConfig(t *testing.T) {
	loader := NewConfigurationLoader()
	base := loader.LoadDefaultConfig()

	override := &domain.AnalysisRequest{
		Paths:        []string{"src/app.js"},
		OutputFormat: domain.OutputFormatJSON,
		MinScore:     5,
		SortBy:       domain.SortByName,
		FunctionThresholds: domain.Thresholds{
			Low: 2, Medium: 6, High: 12,
		},
		Workers: 8,
	}

	merged := loader.MergeConfig(base, override)

	if len(merged.Paths) != 1 || merged.Paths[0] != "src/app.js" {
		t.Errorf("paths should come from override, got %v", merged.Paths)
	}
	if merged.OutputFormat != domain.OutputFormatJSON {
		t.Errorf("format should come from override, got %s", merged.OutputFormat)
	}
	if merged.MinScore != 5 {
		t.Errorf("min score should come from override, got %d", merged.MinScore)
	}
	if merged.SortBy != domain.SortByName {
		t.Errorf("sort should come from override, got %s", merged.SortBy)
	}
	if merged.Workers != 8 {
		t.Errorf("workers should come from override, got %d", merged.Workers)
	}
	// Unset override fields keep the base values
	if merged.FileThresholds != base.FileThresholds {
		t.Errorf("file thresholds should keep base, got %+v", merged.FileThresholds)
	}
	if merged.NestedFunctions != base.NestedFunctions {
		t.Errorf("nested mode should keep base, got %s", merged.NestedFunctions)
	}
}

func TestMergeConfig_SortOverrideAlwaysWins(t *testing.T) {
	loader := NewConfigurationLoader()
	base := loader.LoadDefaultConfig()
	base.SortBy = domain.SortByName

	merged := loader.MergeConfig(base, &domain.AnalysisRequest{SortBy: domain.SortByComplexity})

	if merged.SortBy != domain.SortByComplexity {
		t.Errorf("a set sort override should win over the base, got %s", merged.SortBy)
	}
}

func TestMergeConfig_ZeroOverrideKeepsBase(t *testing.T) {
	loader := NewConfigurationLoader()
	base := loader.LoadDefaultConfig()
	base.MinScore = 3

	merged := loader.MergeConfig(base, &domain.AnalysisRequest{})

	if merged.MinScore != 3 {
		t.Errorf("zero override should keep base min score, got %d", merged.MinScore)
	}
	if merged.OutputFormat != base.OutputFormat {
		t.Errorf("zero override should keep base format, got %s", merged.OutputFormat)
	}
}

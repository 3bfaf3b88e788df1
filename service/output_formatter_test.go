package service

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/cogscan/cogscan/domain"
)

func sampleResponse() *domain.AnalysisResponse {
	files := []domain.FileReport{
		AggregateFile("big.js", []domain.FunctionComplexity{
			{Name: "tangled", FilePath: "big.js", StartLine: 3, EndLine: 40, Total: 24,
				Severity: domain.SeverityCritical,
				Breakdown: []domain.ScoreIncrement{
					{Reason: "if", Amount: 1, Nesting: 0, Line: 4},
					{Reason: "loop", Amount: 2, Nesting: 1, Line: 6},
				}},
			{Name: "helper", FilePath: "big.js", StartLine: 42, EndLine: 50, Total: 6,
				Severity: domain.SeverityMedium},
		}, domain.DefaultFileThresholds()),
		AggregateFile("small.js", []domain.FunctionComplexity{
			{Name: "tidy", FilePath: "small.js", StartLine: 1, EndLine: 5, Total: 10,
				Severity: domain.SeverityMedium},
		}, domain.DefaultFileThresholds()),
	}

	project := AggregateProject(files, []domain.SkippedFile{
		{Path: "broken.js", Reason: "failed to parse"},
	})

	return &domain.AnalysisResponse{
		Project: project,
		Summary: domain.AnalysisSummary{
			TotalFunctions:    3,
			FilesScored:       2,
			FilesSkipped:      1,
			AverageScore:      13.33,
			MaxScore:          24,
			MediumFunctions:   2,
			CriticalFunctions: 1,
		},
		Warnings:    []string{"[big.js] 6:1: unrecognized construct"},
		Errors:      []string{"[broken.js] failed to parse"},
		GeneratedAt: "2026-08-29T10:00:00Z",
		Version:     "test",
	}
}

func TestFormat_Text(t *testing.T) {
	formatter := NewOutputFormatter()

	output, err := formatter.Format(sampleResponse(), domain.OutputFormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"=== Cognitive Complexity ===",
		"Files scored: 2",
		"Files skipped: 1",
		"Critical: 1",
		"tangled: 24 [CRITICAL]",
		"tidy: 10 [MEDIUM]",
		"broken.js: failed to parse",
		"unrecognized construct",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("text output missing %q", want)
		}
	}

	// Pareto ordering: big.js contributes the most and lists first
	if strings.Index(output, "big.js") > strings.Index(output, "small.js") {
		t.Error("files should list in contribution order")
	}
	if !strings.Contains(output, "cum  75.0%") || !strings.Contains(output, "cum 100.0%") {
		t.Errorf("text output missing cumulative percentages:\n%s", output)
	}
}

func TestFormat_TextIncludesBreakdown(t *testing.T) {
	formatter := NewOutputFormatter()

	output, err := formatter.Format(sampleResponse(), domain.OutputFormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "+2 loop (nesting 1, line 6)") {
		t.Errorf("breakdown line missing:\n%s", output)
	}
}

func TestFormat_JSON(t *testing.T) {
	formatter := NewOutputFormatter()

	output, err := formatter.Format(sampleResponse(), domain.OutputFormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded AnalysisResponseJSON
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Project.Total != 40 {
		t.Errorf("project total should round-trip, got %d", decoded.Project.Total)
	}
	if decoded.GeneratedAt != "2026-08-29T10:00:00Z" {
		t.Errorf("generated_at should round-trip, got %q", decoded.GeneratedAt)
	}
	if len(decoded.Project.Files) != 2 {
		t.Errorf("expected 2 files, got %d", len(decoded.Project.Files))
	}
}

func TestFormat_YAML(t *testing.T) {
	formatter := NewOutputFormatter()

	output, err := formatter.Format(sampleResponse(), domain.OutputFormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if _, ok := decoded["project"]; !ok {
		t.Errorf("YAML output missing project section: %v", decoded)
	}
}

func TestFormat_CSV(t *testing.T) {
	formatter := NewOutputFormatter()

	output, err := formatter.Format(sampleResponse(), domain.OutputFormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(output)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "path" {
		t.Errorf("first column should be path, got %q", records[0][0])
	}
	if records[1][0] != "big.js" || records[1][1] != "30" {
		t.Errorf("first data row should be big.js with total 30, got %v", records[1])
	}
	if records[2][5] != "100.0" {
		t.Errorf("last cumulative percent should be 100.0, got %q", records[2][5])
	}
}

func TestFormat_UnsupportedFormat(t *testing.T) {
	formatter := NewOutputFormatter()

	_, err := formatter.Format(sampleResponse(), domain.OutputFormat("xml"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}

	var domainErr domain.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %T", err)
	}
	if domainErr.Code != domain.ErrCodeUnsupportedFormat {
		t.Errorf("expected UNSUPPORTED_FORMAT, got %s", domainErr.Code)
	}
}

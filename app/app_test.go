package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cogscan/cogscan/domain"
	"github.com/cogscan/cogscan/service"
)

func TestFileHelperCollectJSFiles(t *testing.T) {
	tempDir := t.TempDir()

	testFiles := []string{"test.js", "test.ts", "test.jsx", "test.tsx", "test.txt"}
	for _, f := range testFiles {
		path := filepath.Join(tempDir, f)
		if err := os.WriteFile(path, []byte("// test"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	helper := NewFileHelper()

	files, err := helper.CollectJSFiles([]string{tempDir}, true, nil, nil)
	if err != nil {
		t.Fatalf("CollectJSFiles failed: %v", err)
	}

	// Should find 4 JS/TS files
	if len(files) != 4 {
		t.Errorf("Expected 4 JS/TS files, got %d", len(files))
	}
}

func TestFileHelperSkipsExcludedDirectories(t *testing.T) {
	tempDir := t.TempDir()

	srcDir := filepath.Join(tempDir, "src")
	modDir := filepath.Join(tempDir, "node_modules")
	for _, dir := range []string{srcDir, modDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
	}
	for _, path := range []string{
		filepath.Join(srcDir, "app.js"),
		filepath.Join(modDir, "dep.js"),
	} {
		if err := os.WriteFile(path, []byte("// test"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	helper := NewFileHelper()

	files, err := helper.CollectJSFiles([]string{tempDir}, true, nil, []string{"node_modules"})
	if err != nil {
		t.Fatalf("CollectJSFiles failed: %v", err)
	}

	if len(files) != 1 || filepath.Base(files[0]) != "app.js" {
		t.Errorf("Expected only src/app.js, got %v", files)
	}
}

func TestFileHelperRespectsGitignore(t *testing.T) {
	tempDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tempDir, ".gitignore"), []byte("generated.js\n"), 0644); err != nil {
		t.Fatalf("Failed to write .gitignore: %v", err)
	}
	for _, name := range []string{"kept.js", "generated.js"} {
		if err := os.WriteFile(filepath.Join(tempDir, name), []byte("// test"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	helper := NewFileHelper()
	files, err := helper.CollectJSFiles([]string{tempDir}, true, nil, nil)
	if err != nil {
		t.Fatalf("CollectJSFiles failed: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "kept.js" {
		t.Errorf("Expected only kept.js, got %v", files)
	}

	// Disabled gitignore handling picks up both files
	plain := NewFileHelperWithOptions(false)
	files, err = plain.CollectJSFiles([]string{tempDir}, true, nil, nil)
	if err != nil {
		t.Fatalf("CollectJSFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("Expected 2 files with gitignore disabled, got %v", files)
	}
}

func TestFileHelperIsValidJSFile(t *testing.T) {
	helper := NewFileHelper()

	tests := []struct {
		path     string
		expected bool
	}{
		{"test.js", true},
		{"test.ts", true},
		{"test.jsx", true},
		{"test.tsx", true},
		{"test.mjs", true},
		{"test.cjs", true},
		{"test.mts", true},
		{"test.cts", true},
		{"test.py", false},
		{"test.go", false},
		{"test.txt", false},
	}

	for _, tt := range tests {
		result := helper.IsValidJSFile(tt.path)
		if result != tt.expected {
			t.Errorf("IsValidJSFile(%s) = %v, expected %v", tt.path, result, tt.expected)
		}
	}
}

func TestFileHelperFileExists(t *testing.T) {
	helper := NewFileHelper()

	tempFile, err := os.CreateTemp("", "test*.js")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tempFile.Close()
	defer os.Remove(tempFile.Name())

	exists, err := helper.FileExists(tempFile.Name())
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if !exists {
		t.Error("Expected file to exist")
	}

	exists, err = helper.FileExists("/nonexistent/file.js")
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if exists {
		t.Error("Expected file to not exist")
	}
}

func TestFileHelperIsExcluded(t *testing.T) {
	helper := NewFileHelper()

	tests := []struct {
		path            string
		excludePatterns []string
		expected        bool
	}{
		{"test.js", []string{"*.spec.js"}, false},
		{"test.spec.js", []string{"*.spec.js"}, true},
		{"test.test.js", []string{"*.test.js"}, true},
		{"node_modules/test.js", []string{"node_modules"}, true},
		{"src/test.js", []string{"node_modules"}, false},
	}

	for _, tt := range tests {
		result := helper.isExcluded(tt.path, tt.excludePatterns)
		if result != tt.expected {
			t.Errorf("isExcluded(%s, %v) = %v, expected %v", tt.path, tt.excludePatterns, result, tt.expected)
		}
	}
}

func TestResolveFilePaths(t *testing.T) {
	tempDir := t.TempDir()

	filePath := filepath.Join(tempDir, "direct.js")
	if err := os.WriteFile(filePath, []byte("// test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	helper := NewFileHelper()

	// File paths pass through untouched
	files, err := ResolveFilePaths(helper, []string{filePath}, true, nil, nil)
	if err != nil {
		t.Fatalf("ResolveFilePaths failed: %v", err)
	}
	if len(files) != 1 || files[0] != filePath {
		t.Errorf("Expected direct file path, got %v", files)
	}

	// Directories get collected
	files, err = ResolveFilePaths(helper, []string{tempDir}, true, nil, nil)
	if err != nil {
		t.Fatalf("ResolveFilePaths failed: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("Expected 1 collected file, got %v", files)
	}
}

func newUseCase(t *testing.T) *ComplexityUseCase {
	t.Helper()
	uc, err := NewComplexityUseCaseBuilder().
		WithService(service.NewComplexityService(nil)).
		WithFormatter(service.NewOutputFormatter()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return uc
}

func TestComplexityUseCaseExecute(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "app.js")
	source := `function f(a, b) { if (a && b) { return a; } return b; }`
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	var buf bytes.Buffer
	req := domain.AnalysisRequest{
		Paths:        []string{tempDir},
		OutputFormat: domain.OutputFormatText,
		OutputWriter: &buf,
		Recursive:    true,
	}

	uc := newUseCase(t)
	resp, err := uc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if resp.Summary.FilesScored != 1 {
		t.Errorf("Expected 1 scored file, got %d", resp.Summary.FilesScored)
	}
	if !bytes.Contains(buf.Bytes(), []byte("=== Cognitive Complexity ===")) {
		t.Error("Expected text output to be written")
	}
}

func TestComplexityUseCaseExecute_NoFiles(t *testing.T) {
	tempDir := t.TempDir()

	uc := newUseCase(t)
	_, err := uc.Execute(context.Background(), domain.AnalysisRequest{
		Paths:     []string{tempDir},
		Recursive: true,
	})
	if err == nil {
		t.Fatal("Expected error for directory without JS files")
	}

	var domainErr domain.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != domain.ErrCodeInvalidInput {
		t.Errorf("Expected INVALID_INPUT, got %v", err)
	}
}

func TestComplexityUseCaseExecute_InvalidRequest(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.Execute(context.Background(), domain.AnalysisRequest{
		Paths:    []string{"src"},
		MinScore: 10,
		MaxScore: 5,
	})
	if err == nil {
		t.Fatal("Expected validation error when min score exceeds max score")
	}
}

func TestComplexityUseCaseAnalyzeFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "one.js")
	if err := os.WriteFile(path, []byte(`function f() { if (a) { b(); } }`), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	uc := newUseCase(t)
	resp, err := uc.AnalyzeFile(context.Background(), path, domain.AnalysisRequest{})
	if err != nil {
		t.Fatalf("AnalyzeFile failed: %v", err)
	}
	if resp.Project.Total != 1 {
		t.Errorf("Expected total 1, got %d", resp.Project.Total)
	}
}

func TestComplexityUseCaseAnalyzeFile_Rejections(t *testing.T) {
	uc := newUseCase(t)

	if _, err := uc.AnalyzeFile(context.Background(), "notes.txt", domain.AnalysisRequest{}); err == nil {
		t.Error("Expected rejection of non JS/TS file")
	}
	if _, err := uc.AnalyzeFile(context.Background(), "/nonexistent/gone.js", domain.AnalysisRequest{}); err == nil {
		t.Error("Expected rejection of missing file")
	}
}

func TestComplexityUseCaseBuilder_RequiresService(t *testing.T) {
	if _, err := NewComplexityUseCaseBuilder().Build(); err == nil {
		t.Error("Expected builder to require a service")
	}
}

func TestComplexityUseCaseExecute_WritesOutputFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "app.js")
	if err := os.WriteFile(path, []byte(`function f() { if (a) { b(); } }`), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	outPath := filepath.Join(tempDir, "report.json")

	uc := newUseCase(t)
	_, err := uc.Execute(context.Background(), domain.AnalysisRequest{
		Paths:        []string{path},
		OutputFormat: domain.OutputFormatJSON,
		OutputPath:   outPath,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Output file not written: %v", err)
	}
	if !bytes.Contains(data, []byte(`"project"`)) {
		t.Error("Expected JSON report content in output file")
	}
}

package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cogscan/cogscan/domain"
)

func writeSourceFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func newTestRequest(paths ...string) domain.AnalysisRequest {
	return domain.AnalysisRequest{
		Paths:              paths,
		FileThresholds:     domain.DefaultFileThresholds(),
		FunctionThresholds: domain.DefaultFunctionThresholds(),
		NestedFunctions:    domain.NestedFunctionSeparate,
		ShowDetails:        true,
	}
}

func TestAnalyze_EmptyPaths(t *testing.T) {
	svc := NewComplexityService(nil)

	_, err := svc.Analyze(context.Background(), domain.AnalysisRequest{})
	if err == nil {
		t.Fatal("expected error for empty path list")
	}

	var domainErr domain.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %T", err)
	}
	if domainErr.Code != domain.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", domainErr.Code)
	}
}

func TestAnalyze_ScoresSimpleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSourceFile(t, dir, "simple.js", `
function choose(a, b) {
  if (a || b) {
    return a;
  }
  return b;
}
`)

	svc := NewComplexityService(nil)
	resp, err := svc.Analyze(context.Background(), newTestRequest(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Summary.FilesScored != 1 {
		t.Fatalf("expected 1 scored file, got %d", resp.Summary.FilesScored)
	}
	if len(resp.Project.Files) != 1 {
		t.Fatalf("expected 1 file report, got %d", len(resp.Project.Files))
	}

	file := resp.Project.Files[0]
	if file.Total != 2 {
		t.Errorf("if with || should score 2, got %d", file.Total)
	}
	if len(file.Functions) != 1 || file.Functions[0].Name != "choose" {
		t.Fatalf("expected single function 'choose', got %+v", file.Functions)
	}
	if len(file.Functions[0].Breakdown) != 2 {
		t.Errorf("expected 2 increments in breakdown, got %d", len(file.Functions[0].Breakdown))
	}
}

func TestAnalyze_SkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeSourceFile(t, dir, "good.js", `function f() { if (x) { y(); } }`)
	missing := filepath.Join(dir, "missing.js")

	svc := NewComplexityService(nil)
	resp, err := svc.Analyze(context.Background(), newTestRequest(good, missing))
	if err != nil {
		t.Fatalf("a skipped file must not fail the run: %v", err)
	}

	if resp.Summary.FilesScored != 1 {
		t.Errorf("expected 1 scored file, got %d", resp.Summary.FilesScored)
	}
	if resp.Summary.FilesSkipped != 1 {
		t.Errorf("expected 1 skipped file, got %d", resp.Summary.FilesSkipped)
	}
	if len(resp.Errors) != 1 {
		t.Errorf("expected 1 error entry for the skipped file, got %v", resp.Errors)
	}
	if len(resp.Project.Skipped) != 1 || resp.Project.Skipped[0].Path != missing {
		t.Errorf("skipped listing should name the missing file, got %+v", resp.Project.Skipped)
	}
	if !strings.Contains(resp.Project.Skipped[0].Reason, domain.ErrCodeFileNotFound) {
		t.Errorf("skip reason should carry %s, got %q", domain.ErrCodeFileNotFound, resp.Project.Skipped[0].Reason)
	}
}

func TestAnalyze_UnsupportedExtensionIsSkipped(t *testing.T) {
	dir := t.TempDir()
	path := writeSourceFile(t, dir, "notes.txt", "plain text")

	svc := NewComplexityService(nil)
	resp, err := svc.Analyze(context.Background(), newTestRequest(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Summary.FilesSkipped != 1 {
		t.Errorf("expected unsupported file to be skipped, got %+v", resp.Summary)
	}
	if len(resp.Project.Skipped) != 1 || !strings.Contains(resp.Project.Skipped[0].Reason, domain.ErrCodeParseError) {
		t.Errorf("skip reason should carry %s, got %+v", domain.ErrCodeParseError, resp.Project.Skipped)
	}
}

func TestAnalyze_FileTotalIgnoresListingFilter(t *testing.T) {
	dir := t.TempDir()
	path := writeSourceFile(t, dir, "mixed.js", `
function simple() { if (a) { b(); } }
function gnarly() {
  if (a) {
    for (const x of xs) {
      if (x) { y(); }
    }
  }
}
`)

	req := newTestRequest(path)
	req.MinScore = 5

	svc := NewComplexityService(nil)
	resp, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file := resp.Project.Files[0]
	// simple=1, gnarly=1+2+3=6; the listing hides simple but the total keeps it
	if file.Total != 7 {
		t.Errorf("file total must cover filtered-out functions, got %d", file.Total)
	}
	if len(file.Functions) != 1 || file.Functions[0].Name != "gnarly" {
		t.Errorf("listing should only contain gnarly, got %+v", file.Functions)
	}
	// The summary also covers every function
	if resp.Summary.TotalFunctions != 2 {
		t.Errorf("summary should count all functions, got %d", resp.Summary.TotalFunctions)
	}
}

func TestAnalyze_SortByName(t *testing.T) {
	dir := t.TempDir()
	path := writeSourceFile(t, dir, "sorted.js", `
function zebra() { if (a) { b(); } }
function apple() { if (a) { if (b) { c(); } } }
`)

	req := newTestRequest(path)
	req.SortBy = domain.SortByName

	svc := NewComplexityService(nil)
	resp, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fns := resp.Project.Files[0].Functions
	if fns[0].Name != "apple" || fns[1].Name != "zebra" {
		t.Errorf("expected name order [apple zebra], got [%s %s]", fns[0].Name, fns[1].Name)
	}
}

func TestAnalyze_DefaultSortByScoreDescending(t *testing.T) {
	dir := t.TempDir()
	path := writeSourceFile(t, dir, "scores.js", `
function low() { if (a) { b(); } }
function high() { if (a) { if (b) { if (c) { d(); } } } }
`)

	svc := NewComplexityService(nil)
	resp, err := svc.Analyze(context.Background(), newTestRequest(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fns := resp.Project.Files[0].Functions
	if fns[0].Name != "high" {
		t.Errorf("highest score should list first, got %s", fns[0].Name)
	}
}

func TestAnalyze_ParallelRunsAreDeterministic(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeSourceFile(t, dir, "a.js", `function a() { if (x) { if (y) { z(); } } }`),
		writeSourceFile(t, dir, "b.js", `function b() { for (;;) { if (x) { break; } } }`),
		writeSourceFile(t, dir, "c.js", `function c() { while (x && y) { z(); } }`),
		writeSourceFile(t, dir, "d.js", `function d() { return x ? y : z; }`),
	}

	svc := NewComplexityService(nil)

	sequential := newTestRequest(paths...)
	sequential.Workers = 1
	seqResp, err := svc.Analyze(context.Background(), sequential)
	if err != nil {
		t.Fatalf("sequential run failed: %v", err)
	}

	for trial := 0; trial < 5; trial++ {
		parallel := newTestRequest(paths...)
		parallel.Workers = 4
		parResp, err := svc.Analyze(context.Background(), parallel)
		if err != nil {
			t.Fatalf("parallel run failed: %v", err)
		}
		if !reflect.DeepEqual(seqResp.Project, parResp.Project) {
			t.Fatalf("parallel run produced a different report (trial %d)", trial)
		}
	}
}

func TestAnalyze_NestedFunctionModes(t *testing.T) {
	source := `
function outer() {
  if (a) {
    const inner = () => {
      if (b) { c(); }
    };
  }
}
`
	dir := t.TempDir()
	path := writeSourceFile(t, dir, "nested.js", source)

	svc := NewComplexityService(nil)

	separate := newTestRequest(path)
	sepResp, err := svc.Analyze(context.Background(), separate)
	if err != nil {
		t.Fatalf("separate mode failed: %v", err)
	}
	if got := len(sepResp.Project.Files[0].Functions); got != 2 {
		t.Errorf("separate mode should report 2 functions, got %d", got)
	}

	fold := newTestRequest(path)
	fold.NestedFunctions = domain.NestedFunctionFold
	foldResp, err := svc.Analyze(context.Background(), fold)
	if err != nil {
		t.Fatalf("fold mode failed: %v", err)
	}
	if got := len(foldResp.Project.Files[0].Functions); got != 1 {
		t.Errorf("fold mode should report 1 function, got %d", got)
	}
}

func TestAnalyze_BreakdownHiddenWithoutDetails(t *testing.T) {
	dir := t.TempDir()
	path := writeSourceFile(t, dir, "plain.js", `function f() { if (a) { b(); } }`)

	req := newTestRequest(path)
	req.ShowDetails = false

	svc := NewComplexityService(nil)
	resp, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fn := resp.Project.Files[0].Functions[0]
	if fn.Breakdown != nil {
		t.Errorf("breakdown should be omitted without details, got %+v", fn.Breakdown)
	}
	if fn.Total != 1 {
		t.Errorf("total must survive without the breakdown, got %d", fn.Total)
	}
}

func TestAnalyzeFile_DelegatesToAnalyze(t *testing.T) {
	dir := t.TempDir()
	path := writeSourceFile(t, dir, "one.js", `function f() { if (a) { b(); } }`)

	svc := NewComplexityService(nil)
	resp, err := svc.AnalyzeFile(context.Background(), path, newTestRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Summary.FilesScored != 1 {
		t.Errorf("expected 1 scored file, got %d", resp.Summary.FilesScored)
	}
}

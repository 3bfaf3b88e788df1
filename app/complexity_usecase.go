package app

import (
	"context"
	"fmt"
	"os"

	"github.com/cogscan/cogscan/domain"
)

// ComplexityUseCase orchestrates the scoring workflow from path resolution
// through analysis to formatted output
type ComplexityUseCase struct {
	service    domain.ComplexityService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewComplexityUseCase creates a new complexity use case
func NewComplexityUseCase(service domain.ComplexityService, formatter domain.OutputFormatter) *ComplexityUseCase {
	return &ComplexityUseCase{
		service:    service,
		formatter:  formatter,
		fileHelper: NewFileHelper(),
	}
}

// Execute performs the complete scoring workflow
func (uc *ComplexityUseCase) Execute(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	files, err := ResolveFilePaths(
		uc.fileHelper,
		req.Paths,
		req.Recursive,
		req.IncludePatterns,
		req.ExcludePatterns,
	)
	if err != nil {
		return nil, domain.NewFileNotFoundError("failed to collect files", err)
	}

	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no JavaScript/TypeScript files found in the specified paths", nil)
	}

	req.Paths = files

	response, err := uc.service.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := uc.writeOutput(response, req); err != nil {
		return nil, err
	}

	return response, nil
}

// AnalyzeFile scores a single file
func (uc *ComplexityUseCase) AnalyzeFile(ctx context.Context, filePath string, req domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	if !uc.fileHelper.IsValidJSFile(filePath) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not a valid JavaScript/TypeScript file: %s", filePath), nil)
	}

	exists, err := uc.fileHelper.FileExists(filePath)
	if err != nil {
		return nil, domain.NewFileNotFoundError(filePath, err)
	}
	if !exists {
		return nil, domain.NewFileNotFoundError(filePath, fmt.Errorf("file does not exist"))
	}

	req.Paths = []string{filePath}

	response, err := uc.service.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := uc.writeOutput(response, req); err != nil {
		return nil, err
	}

	return response, nil
}

// writeOutput renders the response to the requested destination. A missing
// formatter or destination means the caller only wants the response value.
func (uc *ComplexityUseCase) writeOutput(response *domain.AnalysisResponse, req domain.AnalysisRequest) error {
	if uc.formatter == nil {
		return nil
	}

	if req.OutputPath != "" {
		f, err := os.Create(req.OutputPath)
		if err != nil {
			return domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", req.OutputPath), err)
		}
		defer f.Close()
		return uc.formatter.Write(response, req.OutputFormat, f)
	}

	if req.OutputWriter != nil {
		return uc.formatter.Write(response, req.OutputFormat, req.OutputWriter)
	}

	return nil
}

// validateRequest validates the analysis request
func (uc *ComplexityUseCase) validateRequest(req domain.AnalysisRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}

	if req.MinScore < 0 {
		return fmt.Errorf("minimum score cannot be negative")
	}

	if req.MaxScore < 0 {
		return fmt.Errorf("maximum score cannot be negative")
	}

	if req.MaxScore > 0 && req.MinScore > req.MaxScore {
		return fmt.Errorf("minimum score cannot be greater than maximum score")
	}

	if req.FileThresholds != (domain.Thresholds{}) {
		if err := req.FileThresholds.Validate(); err != nil {
			return err
		}
	}

	if req.FunctionThresholds != (domain.Thresholds{}) {
		if err := req.FunctionThresholds.Validate(); err != nil {
			return err
		}
	}

	if req.NestedFunctions != "" &&
		req.NestedFunctions != domain.NestedFunctionSeparate &&
		req.NestedFunctions != domain.NestedFunctionFold {
		return fmt.Errorf("unknown nested function mode: %s", req.NestedFunctions)
	}

	return nil
}

// ComplexityUseCaseBuilder provides a builder for assembling the use case
type ComplexityUseCaseBuilder struct {
	service    domain.ComplexityService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewComplexityUseCaseBuilder creates a new builder
func NewComplexityUseCaseBuilder() *ComplexityUseCaseBuilder {
	return &ComplexityUseCaseBuilder{}
}

// WithService sets the complexity service
func (b *ComplexityUseCaseBuilder) WithService(service domain.ComplexityService) *ComplexityUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *ComplexityUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *ComplexityUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithFileHelper sets the file helper
func (b *ComplexityUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *ComplexityUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the ComplexityUseCase with the configured dependencies
func (b *ComplexityUseCaseBuilder) Build() (*ComplexityUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("complexity service is required")
	}

	uc := &ComplexityUseCase{
		service:    b.service,
		formatter:  b.formatter,
		fileHelper: b.fileHelper,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}

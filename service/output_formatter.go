package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cogscan/cogscan/domain"
	"github.com/cogscan/cogscan/internal/version"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// AnalysisResponseJSON wraps AnalysisResponse with output metadata
type AnalysisResponseJSON struct {
	Version     string                 `json:"version"`
	GeneratedAt string                 `json:"generated_at"`
	Project     domain.ProjectReport   `json:"project"`
	Summary     domain.AnalysisSummary `json:"summary"`
	Warnings    []string               `json:"warnings,omitempty"`
	Errors      []string               `json:"errors,omitempty"`
	Config      interface{}            `json:"config,omitempty"`
}

// Format formats the analysis response according to the specified format
func (f *OutputFormatterImpl) Format(response *domain.AnalysisResponse, format domain.OutputFormat) (string, error) {
	var buf bytes.Buffer
	if err := f.Write(response, format, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write writes the analysis response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.AnalysisResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeJSON(response, writer)
	case domain.OutputFormatYAML:
		return f.writeYAML(response, writer)
	case domain.OutputFormatCSV:
		return f.writeCSV(response, writer)
	case domain.OutputFormatText:
		return f.writeText(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *OutputFormatterImpl) writeJSON(response *domain.AnalysisResponse, writer io.Writer) error {
	jsonResponse := AnalysisResponseJSON{
		Version:     version.Version,
		GeneratedAt: response.GeneratedAt,
		Project:     response.Project,
		Summary:     response.Summary,
		Warnings:    response.Warnings,
		Errors:      response.Errors,
		Config:      response.Config,
	}
	return WriteJSON(writer, jsonResponse)
}

func (f *OutputFormatterImpl) writeYAML(response *domain.AnalysisResponse, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(response)
}

// writeCSV emits one row per file in aggregation order, suitable for
// spreadsheet import and downstream charting
func (f *OutputFormatterImpl) writeCSV(response *domain.AnalysisResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	header := []string{"path", "total", "severity", "functions", "cumulative_total", "cumulative_percent"}
	if err := w.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	for _, file := range response.Project.Files {
		row := []string{
			file.Path,
			strconv.Itoa(file.Total),
			string(file.Severity),
			strconv.Itoa(len(file.Functions)),
			strconv.Itoa(file.CumulativeTotal),
			strconv.FormatFloat(file.CumulativePercent, 'f', 1, 64),
		}
		if err := w.Write(row); err != nil {
			return domain.NewOutputError("failed to write CSV row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV", err)
	}
	return nil
}

func (f *OutputFormatterImpl) writeText(response *domain.AnalysisResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Cognitive Complexity ===\n\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	// Summary
	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Files scored: %d\n", response.Summary.FilesScored)
	fmt.Fprintf(writer, "  Files skipped: %d\n", response.Summary.FilesSkipped)
	fmt.Fprintf(writer, "  Total functions: %d\n", response.Summary.TotalFunctions)
	fmt.Fprintf(writer, "  Project total: %d\n", response.Project.Total)
	fmt.Fprintf(writer, "  Average score: %.2f\n", response.Summary.AverageScore)
	fmt.Fprintf(writer, "  Max score: %d\n", response.Summary.MaxScore)
	fmt.Fprintf(writer, "\n")

	// Severity distribution
	fmt.Fprintf(writer, "Severity Distribution (functions):\n")
	fmt.Fprintf(writer, "  Critical: %d\n", response.Summary.CriticalFunctions)
	fmt.Fprintf(writer, "  High: %d\n", response.Summary.HighFunctions)
	fmt.Fprintf(writer, "  Medium: %d\n", response.Summary.MediumFunctions)
	fmt.Fprintf(writer, "  Low: %d\n", response.Summary.LowFunctions)
	fmt.Fprintf(writer, "\n")

	// Pareto table: files in contribution order with cumulative share
	if len(response.Project.Files) > 0 {
		fmt.Fprintf(writer, "Files (by contribution):\n")
		for _, file := range response.Project.Files {
			fmt.Fprintf(writer, "  %-50s %5d  %-8s cum %5.1f%%\n",
				file.Path, file.Total, strings.ToUpper(string(file.Severity)), file.CumulativePercent)

			for _, fn := range file.Functions {
				marker := ""
				switch fn.Severity {
				case domain.SeverityCritical:
					marker = " [CRITICAL]"
				case domain.SeverityHigh:
					marker = " [HIGH]"
				case domain.SeverityMedium:
					marker = " [MEDIUM]"
				}
				fmt.Fprintf(writer, "    %s: %d%s\n", fn.Name, fn.Total, marker)
				fmt.Fprintf(writer, "      at %s:%d-%d\n", fn.FilePath, fn.StartLine, fn.EndLine)

				for _, inc := range fn.Breakdown {
					fmt.Fprintf(writer, "      +%d %s (nesting %d, line %d)\n",
						inc.Amount, inc.Reason, inc.Nesting, inc.Line)
				}
			}
		}
	}

	// Skipped files
	if len(response.Project.Skipped) > 0 {
		fmt.Fprintf(writer, "\nSkipped:\n")
		for _, s := range response.Project.Skipped {
			fmt.Fprintf(writer, "  - %s: %s\n", s.Path, s.Reason)
		}
	}

	// Warnings
	if len(response.Warnings) > 0 {
		fmt.Fprintf(writer, "\nWarnings:\n")
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
	}

	// Errors
	if len(response.Errors) > 0 {
		fmt.Fprintf(writer, "\nErrors:\n")
		for _, e := range response.Errors {
			fmt.Fprintf(writer, "  - %s\n", e)
		}
	}

	return nil
}

var _ domain.OutputFormatter = (*OutputFormatterImpl)(nil)

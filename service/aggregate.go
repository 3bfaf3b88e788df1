package service

import (
	"sort"

	"github.com/cogscan/cogscan/domain"
)

// AggregateFile sums function scores into a file report. The file total is
// always the sum over every function in the file, independent of any
// reporting filter applied to the listing later.
func AggregateFile(path string, functions []domain.FunctionComplexity, fileThresholds domain.Thresholds) domain.FileReport {
	total := 0
	for _, fn := range functions {
		total += fn.Total
	}
	return domain.FileReport{
		Path:      path,
		Functions: functions,
		Total:     total,
		Severity:  fileThresholds.Classify(total),
	}
}

// AggregateProject sums file reports into a project report. Files are sorted
// by total descending with ties broken by ascending path, so the result is
// identical however the inputs were ordered or scheduled. Cumulative
// percentages are computed over the sorted sequence; the last entry reaches
// exactly 100 whenever the project total is positive.
func AggregateProject(files []domain.FileReport, skipped []domain.SkippedFile) domain.ProjectReport {
	sorted := make([]domain.FileReport, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Total != sorted[j].Total {
			return sorted[i].Total > sorted[j].Total
		}
		return sorted[i].Path < sorted[j].Path
	})

	total := 0
	for _, f := range sorted {
		total += f.Total
	}

	cumulative := 0
	for i := range sorted {
		cumulative += sorted[i].Total
		sorted[i].CumulativeTotal = cumulative
		if total > 0 {
			sorted[i].CumulativePercent = float64(cumulative) * 100 / float64(total)
		} else {
			sorted[i].CumulativePercent = 0
		}
	}

	skippedCopy := make([]domain.SkippedFile, len(skipped))
	copy(skippedCopy, skipped)
	sort.Slice(skippedCopy, func(i, j int) bool {
		return skippedCopy[i].Path < skippedCopy[j].Path
	})

	return domain.ProjectReport{
		Files:        sorted,
		Total:        total,
		FilesScored:  len(sorted),
		FilesSkipped: len(skippedCopy),
		Skipped:      skippedCopy,
	}
}

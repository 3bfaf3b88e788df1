package domain

// CheckResult represents the result of a complexity threshold check
type CheckResult struct {
	Passed      bool             `json:"passed"`
	ExitCode    int              `json:"exit_code"`
	Violations  []CheckViolation `json:"violations"`
	Summary     CheckSummary     `json:"summary"`
	Duration    int64            `json:"duration_ms"`
	GeneratedAt string           `json:"generated_at"`
	Version     string           `json:"version"`
}

// CheckViolation represents a single threshold violation
type CheckViolation struct {
	Rule      string `json:"rule"`                // max-function-score, max-file-score
	Severity  string `json:"severity"`            // error, warning
	Message   string `json:"message"`             // Human-readable description
	Location  string `json:"location,omitempty"`  // File:line if applicable
	Actual    string `json:"actual"`              // Actual value
	Threshold string `json:"threshold,omitempty"` // Configured threshold
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	FilesAnalyzed     int `json:"files_analyzed"`
	FilesSkipped      int `json:"files_skipped"`
	TotalViolations   int `json:"total_violations"`
	CriticalFiles     int `json:"critical_files"`
	CriticalFunctions int `json:"critical_functions"`
}

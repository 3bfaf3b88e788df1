package domain

// SeverityTier classifies a complexity total
type SeverityTier string

const (
	SeverityLow      SeverityTier = "low"
	SeverityMedium   SeverityTier = "medium"
	SeverityHigh     SeverityTier = "high"
	SeverityCritical SeverityTier = "critical"
)

// Rank returns the position of the tier in the severity ordering. Unknown
// tiers rank below low.
func (t SeverityTier) Rank() int {
	switch t {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// Thresholds holds the ascending score boundaries of the severity tiers.
// A total of at most Low is low severity, at most Medium is medium, at most
// High is high, and anything above High is critical.
type Thresholds struct {
	Low    int `json:"low" yaml:"low" mapstructure:"low"`
	Medium int `json:"medium" yaml:"medium" mapstructure:"medium"`
	High   int `json:"high" yaml:"high" mapstructure:"high"`
}

// DefaultFileThresholds returns the default boundaries for file totals
func DefaultFileThresholds() Thresholds {
	return Thresholds{Low: 5, Medium: 15, High: 25}
}

// DefaultFunctionThresholds returns the stricter boundaries applied to
// individual function totals
func DefaultFunctionThresholds() Thresholds {
	return Thresholds{Low: 5, Medium: 10, High: 20}
}

// Validate rejects threshold sets whose boundaries are not strictly
// ascending, which would make classification non-monotonic
func (t Thresholds) Validate() error {
	if t.Low < 0 {
		return NewConfigError("low threshold must be non-negative", nil)
	}
	if t.Medium <= t.Low {
		return NewConfigError("medium threshold must be greater than low threshold", nil)
	}
	if t.High <= t.Medium {
		return NewConfigError("high threshold must be greater than medium threshold", nil)
	}
	return nil
}

// Classify maps a non-negative total to exactly one tier
func (t Thresholds) Classify(total int) SeverityTier {
	switch {
	case total <= t.Low:
		return SeverityLow
	case total <= t.Medium:
		return SeverityMedium
	case total <= t.High:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

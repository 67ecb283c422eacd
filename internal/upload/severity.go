package upload

import "fmt"

// SeverityBucket groups 1-5 severity ratings for color coding
type SeverityBucket string

const (
	SeverityCritical SeverityBucket = "critical"
	SeverityHigh     SeverityBucket = "high"
	SeverityModerate SeverityBucket = "moderate"
	SeverityLow      SeverityBucket = "low"
)

// MaxSeverity is the top of the rating scale
const MaxSeverity = 5

// Classify maps a rating onto its bucket: >=4 critical, >=3 high, >=2 moderate, else low
func Classify(rating int) SeverityBucket {
	switch {
	case rating >= 4:
		return SeverityCritical
	case rating >= 3:
		return SeverityHigh
	case rating >= 2:
		return SeverityModerate
	default:
		return SeverityLow
	}
}

// SeverityLabel renders a rating as "N/5", or "-" when there is none.
// Failed analyses carry a rating of 0.
func SeverityLabel(rating int) string {
	if rating <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d", rating, MaxSeverity)
}

// SeverityRatio returns the rating as a fraction of the scale, clamped to [0,1]
func SeverityRatio(rating int) float64 {
	switch {
	case rating <= 0:
		return 0
	case rating >= MaxSeverity:
		return 1
	default:
		return float64(rating) / MaxSeverity
	}
}

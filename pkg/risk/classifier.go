package risk

import "github.com/wellmate-ai/wellmate/pkg/common/models"

// Classify maps an adjusted score onto its ordinal category. Bands are
// half-open with the lower bound inclusive; 100 belongs to the top band.
func Classify(score float64) models.RiskCategory {
	switch {
	case score < 20:
		return models.CategoryLow
	case score < 40:
		return models.CategoryModerate
	case score < 60:
		return models.CategoryElevated
	case score < 80:
		return models.CategoryHigh
	default:
		return models.CategoryVeryHigh
	}
}

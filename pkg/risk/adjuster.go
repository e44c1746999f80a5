package risk

import (
	"math"

	"github.com/wellmate-ai/wellmate/pkg/common/models"
)

const (
	idealBMI        = 22.0
	deviationBuffer = 10.0 // pct of ideal weight tolerated without penalty
	penaltyPerPct   = 0.5
	penaltyCap      = 20.0

	hypertensiveSystolic  = 140.0
	hypertensiveDiastolic = 90.0
)

// Adjustment is the deterministic post-processing outcome, kept broken out so
// the reason string and tests can see each step.
type Adjustment struct {
	Adjusted     float64
	Penalty      float64
	DeviationPct float64
	FloorApplied bool
}

// Adjuster applies the BMI-deviation penalty and, when enabled, the
// comorbidity floor to a raw model score.
type Adjuster struct {
	floorEnabled bool
	floorScore   float64
}

func NewAdjuster(floorEnabled bool, floorScore float64) *Adjuster {
	return &Adjuster{floorEnabled: floorEnabled, floorScore: floorScore}
}

// Adjust computes the ideal weight at BMI 22 for the sample's height, takes
// the percentage deviation of actual weight from it, and subtracts half a
// point per percent beyond a 10% buffer, capped at 20 points. The result is
// clamped to [0, 100]. With the floor enabled, a diabetic or hypertensive
// sample never scores below the floor value.
func (a *Adjuster) Adjust(rawScore float64, sample models.RawHealthSample) Adjustment {
	var adj Adjustment

	if sample.HeightCm != nil && sample.WeightKg != nil && *sample.HeightCm > 0 {
		heightM := *sample.HeightCm / 100
		idealWeight := idealBMI * heightM * heightM
		adj.DeviationPct = math.Abs(*sample.WeightKg-idealWeight) / idealWeight * 100
		if adj.DeviationPct > deviationBuffer {
			adj.Penalty = math.Min((adj.DeviationPct-deviationBuffer)*penaltyPerPct, penaltyCap)
		}
	}

	adj.Adjusted = clamp(rawScore-adj.Penalty, 0, 100)

	if a.floorEnabled && hasComorbidity(sample) && adj.Adjusted < a.floorScore {
		adj.Adjusted = a.floorScore
		adj.FloorApplied = true
	}
	return adj
}

func hasComorbidity(sample models.RawHealthSample) bool {
	if isYes(sample.Diabetic) {
		return true
	}
	if sample.SystolicBP != nil && *sample.SystolicBP >= hypertensiveSystolic {
		return true
	}
	if sample.DiastolicBP != nil && *sample.DiastolicBP >= hypertensiveDiastolic {
		return true
	}
	return false
}

func isYes(token string) bool {
	return token == "Yes" || token == "yes" || token == "YES"
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package feature

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Canonical feature names, in the order the scoring model was trained with.
const (
	FeatureAge          = "Age"
	FeatureHeightCm     = "Height_cm"
	FeatureWeightKg     = "Weight_kg"
	FeatureBMI          = "BMI"
	FeatureDailySteps   = "Daily_Steps"
	FeatureCalories     = "Calories_Intake"
	FeatureSleepHours   = "Hours_of_Sleep"
	FeatureHeartRate    = "Heart_Rate"
	FeatureSystolicBP   = "Systolic_BP"
	FeatureDiastolicBP  = "Diastolic_BP"
	FeatureExercise     = "Exercise_Hours_per_Week"
	FeatureAlcohol      = "Alcohol_Consumption_per_Week"
	FeatureGender       = "Gender"
	FeatureSmoker       = "Smoker"
	FeatureDiabetic     = "Diabetic"
	FeatureHeartDisease = "Heart_Disease"
)

var ErrMissingOrder = errors.New("descriptor missing input_order")

// Spec is the static feature configuration: ordered names plus per-feature
// standardization statistics. Binary features carry mean 0, std 1 so they
// pass through standardization unchanged.
type Spec struct {
	Order []string
	Mean  map[string]float64
	Std   map[string]float64
}

// descriptor mirrors the scaler resource exported alongside the model.
// numeric_means/numeric_stds cover the leading numeric prefix of the order;
// anything after that prefix is treated as already scaled.
type descriptor struct {
	InputOrder   []string  `json:"input_order"`
	FeatureOrder []string  `json:"feature_order"`
	NumericMeans []float64 `json:"numeric_means"`
	NumericStds  []float64 `json:"numeric_stds"`
}

// Load reads a spec descriptor from disk. An empty path yields the
// compiled-in default spec.
func Load(path string) (*Spec, error) {
	if path == "" {
		return DefaultSpec(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read feature spec: %w", err)
	}
	var desc descriptor
	if err := json.Unmarshal(content, &desc); err != nil {
		return nil, fmt.Errorf("parse feature spec: %w", err)
	}
	return specFromDescriptor(desc)
}

func specFromDescriptor(desc descriptor) (*Spec, error) {
	order := desc.InputOrder
	if len(order) == 0 {
		order = desc.FeatureOrder
	}
	if len(order) == 0 {
		return nil, ErrMissingOrder
	}
	if len(desc.NumericMeans) != len(desc.NumericStds) {
		return nil, fmt.Errorf("numeric_means has %d entries, numeric_stds has %d", len(desc.NumericMeans), len(desc.NumericStds))
	}
	if len(desc.NumericMeans) > len(order) {
		return nil, fmt.Errorf("numeric stats cover %d features but order lists %d", len(desc.NumericMeans), len(order))
	}

	spec := &Spec{
		Order: make([]string, len(order)),
		Mean:  make(map[string]float64, len(order)),
		Std:   make(map[string]float64, len(order)),
	}
	seen := make(map[string]struct{}, len(order))
	for i, name := range order {
		if name == "" {
			return nil, fmt.Errorf("empty feature name at position %d", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate feature name %s", name)
		}
		seen[name] = struct{}{}
		spec.Order[i] = name

		if i < len(desc.NumericMeans) {
			if desc.NumericStds[i] < 0 {
				return nil, fmt.Errorf("negative std for feature %s", name)
			}
			spec.Mean[name] = desc.NumericMeans[i]
			spec.Std[name] = desc.NumericStds[i]
		} else {
			spec.Mean[name] = 0
			spec.Std[name] = 1
		}
	}
	return spec, nil
}

// Len returns the vector length the spec describes.
func (s *Spec) Len() int {
	return len(s.Order)
}

// DefaultSpec mirrors the shipped model's 16-feature scaler.
func DefaultSpec() *Spec {
	spec, err := specFromDescriptor(descriptor{
		InputOrder: []string{
			FeatureAge, FeatureHeightCm, FeatureWeightKg, FeatureBMI,
			FeatureDailySteps, FeatureCalories, FeatureSleepHours,
			FeatureHeartRate, FeatureSystolicBP, FeatureDiastolicBP,
			FeatureExercise, FeatureAlcohol,
			FeatureGender, FeatureSmoker, FeatureDiabetic, FeatureHeartDisease,
		},
		NumericMeans: []float64{41.5, 170.0, 70.0, 24.5, 7500, 2200, 7.0, 75.0, 121.0, 80.0, 4.5, 4.0},
		NumericStds:  []float64{13.5, 10.0, 15.0, 4.5, 3500, 550, 1.2, 10.0, 15.0, 10.0, 3.0, 4.5},
	})
	if err != nil {
		panic(err)
	}
	return spec
}

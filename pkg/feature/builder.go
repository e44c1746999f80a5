package feature

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wellmate-ai/wellmate/pkg/common/models"
)

// MissingFieldError reports a required field that is absent or unusable.
// No sensible default exists for age, height or weight.
type MissingFieldError struct {
	Field string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("required field %s is missing", e.Field)
}

func IsMissingFieldError(err error) bool {
	var me MissingFieldError
	return errors.As(err, &me)
}

// RangeError reports a field outside its plausible range. It is
// user-actionable: the message names the field and the accepted bounds.
type RangeError struct {
	Field    string
	Value    float64
	Min, Max float64
}

func (e RangeError) Error() string {
	return fmt.Sprintf("%s %.1f out of range [%.0f, %.0f]", e.Field, e.Value, e.Min, e.Max)
}

func IsRangeError(err error) bool {
	var re RangeError
	return errors.As(err, &re)
}

// Per-field fallbacks for optional numeric inputs, drawn from population
// reference values rather than zero.
var optionalDefaults = map[string]float64{
	FeatureDailySteps:  5000,
	FeatureCalories:    2000,
	FeatureSleepHours:  7,
	FeatureHeartRate:   72,
	FeatureSystolicBP:  120,
	FeatureDiastolicBP: 80,
	FeatureExercise:    2,
	FeatureAlcohol:     0,
}

// Plausible bounds, enforced only when the field is present.
type bounds struct {
	min, max float64
}

var fieldBounds = map[string]bounds{
	FeatureAge:        {18, 100},
	FeatureHeightCm:   {50, 250},
	FeatureWeightKg:   {20, 300},
	FeatureSleepHours: {4, 12},
	FeatureCalories:   {500, 15000},
}

// Builder maps a raw sample onto the spec's feature order.
type Builder struct {
	spec *Spec
}

func NewBuilder(spec *Spec) *Builder {
	return &Builder{spec: spec}
}

// Build produces the ordered feature vector for a sample. It is a pure
// function of the sample and the spec: required fields are validated, optional
// fields substitute their documented defaults, binary tokens map to {0, 1}
// and BMI derives from height and weight.
func (b *Builder) Build(sample models.RawHealthSample) ([]float64, error) {
	age, err := requireField(FeatureAge, sample.Age)
	if err != nil {
		return nil, err
	}
	height, err := requireField(FeatureHeightCm, sample.HeightCm)
	if err != nil {
		return nil, err
	}
	weight, err := requireField(FeatureWeightKg, sample.WeightKg)
	if err != nil {
		return nil, err
	}
	if err := checkOptional(FeatureSleepHours, sample.SleepHours); err != nil {
		return nil, err
	}
	if err := checkOptional(FeatureCalories, sample.Calories); err != nil {
		return nil, err
	}

	vector := make([]float64, 0, b.spec.Len())
	for _, name := range b.spec.Order {
		var value float64
		switch name {
		case FeatureAge:
			value = age
		case FeatureHeightCm:
			value = height
		case FeatureWeightKg:
			value = weight
		case FeatureBMI:
			value = bmi(height, weight)
		case FeatureDailySteps:
			value = orDefault(name, sample.DailySteps)
		case FeatureCalories:
			value = orDefault(name, sample.Calories)
		case FeatureSleepHours:
			value = orDefault(name, sample.SleepHours)
		case FeatureHeartRate:
			value = orDefault(name, sample.HeartRate)
		case FeatureSystolicBP:
			value = orDefault(name, sample.SystolicBP)
		case FeatureDiastolicBP:
			value = orDefault(name, sample.DiastolicBP)
		case FeatureExercise:
			value = orDefault(name, sample.ExerciseHoursPerWeek)
		case FeatureAlcohol:
			value = orDefault(name, sample.AlcoholUnitsPerWeek)
		case FeatureGender:
			value = binaryToken(sample.Gender, "male")
		case FeatureSmoker:
			value = binaryToken(sample.Smoker, "yes")
		case FeatureDiabetic:
			value = binaryToken(sample.Diabetic, "yes")
		case FeatureHeartDisease:
			value = binaryToken(sample.HeartDisease, "yes")
		default:
			// Unknown names in a custom descriptor contribute a neutral zero.
			value = 0
		}
		vector = append(vector, value)
	}
	return vector, nil
}

func requireField(name string, v *float64) (float64, error) {
	if v == nil {
		return 0, MissingFieldError{Field: name}
	}
	if b, ok := fieldBounds[name]; ok {
		if *v < b.min || *v > b.max {
			return 0, RangeError{Field: name, Value: *v, Min: b.min, Max: b.max}
		}
	}
	return *v, nil
}

func checkOptional(name string, v *float64) error {
	if v == nil {
		return nil
	}
	if b, ok := fieldBounds[name]; ok {
		if *v < b.min || *v > b.max {
			return RangeError{Field: name, Value: *v, Min: b.min, Max: b.max}
		}
	}
	return nil
}

func orDefault(name string, v *float64) float64 {
	if v != nil {
		return *v
	}
	return optionalDefaults[name]
}

// binaryToken maps a categorical token onto {0, 1}. An unknown or empty
// token maps to 0.
func binaryToken(token, positive string) float64 {
	if strings.EqualFold(strings.TrimSpace(token), positive) {
		return 1
	}
	return 0
}

func bmi(heightCm, weightKg float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

package feature

import (
	"math"
	"testing"

	"github.com/wellmate-ai/wellmate/pkg/common/models"
)

func fptr(v float64) *float64 { return &v }

func validSample() models.RawHealthSample {
	return models.RawHealthSample{
		Age:      fptr(30),
		HeightCm: fptr(175),
		WeightKg: fptr(70),
		Gender:   "Male",
		Smoker:   "No",
	}
}

func index(t *testing.T, spec *Spec, name string) int {
	t.Helper()
	for i, n := range spec.Order {
		if n == name {
			return i
		}
	}
	t.Fatalf("feature %s not in spec", name)
	return -1
}

func TestBuildVectorLengthMatchesSpec(t *testing.T) {
	spec := DefaultSpec()
	vector, err := NewBuilder(spec).Build(validSample())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vector) != spec.Len() {
		t.Fatalf("expected %d features, got %d", spec.Len(), len(vector))
	}
}

func TestBuildMissingRequiredField(t *testing.T) {
	spec := DefaultSpec()
	builder := NewBuilder(spec)

	for _, tc := range []struct {
		name   string
		mutate func(*models.RawHealthSample)
	}{
		{"age", func(s *models.RawHealthSample) { s.Age = nil }},
		{"height", func(s *models.RawHealthSample) { s.HeightCm = nil }},
		{"weight", func(s *models.RawHealthSample) { s.WeightKg = nil }},
	} {
		sample := validSample()
		tc.mutate(&sample)
		_, err := builder.Build(sample)
		if !IsMissingFieldError(err) {
			t.Fatalf("%s: expected MissingFieldError, got %v", tc.name, err)
		}
	}
}

func TestBuildRangeValidation(t *testing.T) {
	builder := NewBuilder(DefaultSpec())

	sample := validSample()
	sample.Age = fptr(150)
	if _, err := builder.Build(sample); !IsRangeError(err) {
		t.Fatalf("expected RangeError for age 150, got %v", err)
	}

	sample = validSample()
	sample.SleepHours = fptr(2)
	if _, err := builder.Build(sample); !IsRangeError(err) {
		t.Fatalf("expected RangeError for sleep 2, got %v", err)
	}

	// Absent optional field is fine even though its range excludes zero.
	sample = validSample()
	sample.SleepHours = nil
	if _, err := builder.Build(sample); err != nil {
		t.Fatalf("unexpected error for absent sleep: %v", err)
	}
}

func TestBuildOptionalDefaults(t *testing.T) {
	spec := DefaultSpec()
	vector, err := NewBuilder(spec).Build(validSample())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := vector[index(t, spec, FeatureDailySteps)]; got != 5000 {
		t.Fatalf("expected default 5000 steps, got %v", got)
	}
	if got := vector[index(t, spec, FeatureHeartRate)]; got != 72 {
		t.Fatalf("expected default heart rate 72, got %v", got)
	}
	if got := vector[index(t, spec, FeatureAlcohol)]; got != 0 {
		t.Fatalf("expected default alcohol 0, got %v", got)
	}
}

func TestBuildBinaryTokens(t *testing.T) {
	spec := DefaultSpec()
	builder := NewBuilder(spec)

	sample := validSample()
	sample.Gender = "Male"
	sample.Smoker = "Yes"
	sample.Diabetic = "no"
	sample.HeartDisease = "whatever"
	vector, err := builder.Build(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vector[index(t, spec, FeatureGender)] != 1 {
		t.Fatal("expected Male to map to 1")
	}
	if vector[index(t, spec, FeatureSmoker)] != 1 {
		t.Fatal("expected Yes to map to 1")
	}
	if vector[index(t, spec, FeatureDiabetic)] != 0 {
		t.Fatal("expected no to map to 0")
	}
	if vector[index(t, spec, FeatureHeartDisease)] != 0 {
		t.Fatal("expected unknown token to map to 0")
	}
}

func TestBuildDerivesBMI(t *testing.T) {
	spec := DefaultSpec()
	vector, err := NewBuilder(spec).Build(validSample())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 70.0 / (1.75 * 1.75)
	if got := vector[index(t, spec, FeatureBMI)]; math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected BMI %.4f, got %.4f", want, got)
	}
}

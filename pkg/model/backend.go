package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
)

// Backend is the opaque inference boundary: a standardized feature vector in,
// one scalar out. Implementations are not required to be safe for concurrent
// calls; the Adapter serializes access.
type Backend interface {
	Infer(ctx context.Context, features []float64) (float64, error)
	InputSize() int
	Close() error
}

// Artifact is the serialized weight bundle the linear backend consumes.
type Artifact struct {
	Model struct {
		Type         string   `json:"type"`
		Algorithm    string   `json:"algorithm"`
		FeatureNames []string `json:"feature_names"`
		Weights      struct {
			Bias         float64   `json:"bias"`
			Coefficients []float64 `json:"coefficients"`
		} `json:"weights"`
	} `json:"model"`
}

// LinearBackend scores with a logistic model read from a JSON artifact. The
// artifact is loaded once, on first use, and held for the process lifetime.
type LinearBackend struct {
	path     string
	once     sync.Once
	artifact Artifact
	loadErr  error
}

func NewLinearBackend(path string) *LinearBackend {
	return &LinearBackend{path: path}
}

func (b *LinearBackend) load() {
	if b.path == "" {
		b.artifact = defaultArtifact()
		return
	}
	content, err := os.ReadFile(filepath.Clean(b.path))
	if err != nil {
		b.loadErr = fmt.Errorf("read model artifact: %w", err)
		return
	}
	var artifact Artifact
	if err := json.Unmarshal(content, &artifact); err != nil {
		b.loadErr = fmt.Errorf("parse model artifact: %w", err)
		return
	}
	if len(artifact.Model.FeatureNames) == 0 {
		b.loadErr = fmt.Errorf("artifact missing feature names")
		return
	}
	if len(artifact.Model.Weights.Coefficients) != len(artifact.Model.FeatureNames) {
		b.loadErr = fmt.Errorf("artifact has %d coefficients for %d features",
			len(artifact.Model.Weights.Coefficients), len(artifact.Model.FeatureNames))
		return
	}
	b.artifact = artifact
}

// Infer returns a score on the 0..100 scale: sigmoid of the linear
// combination, stretched to percentage.
func (b *LinearBackend) Infer(ctx context.Context, features []float64) (float64, error) {
	b.once.Do(b.load)
	if b.loadErr != nil {
		return 0, b.loadErr
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(features) != len(b.artifact.Model.Weights.Coefficients) {
		return 0, fmt.Errorf("artifact expects %d features, got %d",
			len(b.artifact.Model.Weights.Coefficients), len(features))
	}
	sum := b.artifact.Model.Weights.Bias
	for i, coeff := range b.artifact.Model.Weights.Coefficients {
		sum += coeff * features[i]
	}
	return sigmoid(sum) * 100, nil
}

func (b *LinearBackend) InputSize() int {
	b.once.Do(b.load)
	return len(b.artifact.Model.Weights.Coefficients)
}

func (b *LinearBackend) Close() error { return nil }

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// defaultArtifact carries the shipped wellness model. Positive coefficients
// favor protective behaviors (sleep, steps, exercise), negative ones penalize
// risk markers; inputs are standardized so magnitudes are comparable.
func defaultArtifact() Artifact {
	var artifact Artifact
	artifact.Model.Type = "regression"
	artifact.Model.Algorithm = "logistic"
	artifact.Model.FeatureNames = []string{
		"Age", "Height_cm", "Weight_kg", "BMI",
		"Daily_Steps", "Calories_Intake", "Hours_of_Sleep",
		"Heart_Rate", "Systolic_BP", "Diastolic_BP",
		"Exercise_Hours_per_Week", "Alcohol_Consumption_per_Week",
		"Gender", "Smoker", "Diabetic", "Heart_Disease",
	}
	artifact.Model.Weights.Bias = 0.85
	artifact.Model.Weights.Coefficients = []float64{
		-0.22, 0.02, -0.10, -0.35,
		0.40, -0.08, 0.30,
		-0.18, -0.25, -0.15,
		0.35, -0.20,
		0.05, -0.45, -0.55, -0.60,
	}
	return artifact
}

package model

import (
	"context"
	"errors"
	"math"
	"testing"
)

type stubBackend struct {
	out float64
	err error
}

func (s *stubBackend) Infer(ctx context.Context, features []float64) (float64, error) {
	return s.out, s.err
}

func (s *stubBackend) InputSize() int { return 3 }
func (s *stubBackend) Close() error   { return nil }

func TestAdapterRejectsWrongDimension(t *testing.T) {
	adapter := NewAdapter(&stubBackend{out: 50}, 3)
	_, err := adapter.Score(context.Background(), []float64{1, 2})
	if !IsDimensionError(err) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
}

func TestAdapterWrapsBackendFailure(t *testing.T) {
	backendErr := errors.New("backend crashed")
	adapter := NewAdapter(&stubBackend{err: backendErr}, 3)
	_, err := adapter.Score(context.Background(), []float64{1, 2, 3})
	if !IsInferenceError(err) {
		t.Fatalf("expected InferenceError, got %v", err)
	}
	if !errors.Is(err, backendErr) {
		t.Fatal("expected wrapped backend error to unwrap")
	}
}

func TestAdapterClampsNonFiniteOutputs(t *testing.T) {
	cases := []struct {
		out  float64
		want float64
	}{
		{math.NaN(), 0},
		{math.Inf(1), 100},
		{math.Inf(-1), 0},
	}
	for _, tc := range cases {
		adapter := NewAdapter(&stubBackend{out: tc.out}, 3)
		score, err := adapter.Score(context.Background(), []float64{1, 2, 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if score.Value != tc.want {
			t.Fatalf("expected clamp to %v, got %v", tc.want, score.Value)
		}
		if !score.Degraded {
			t.Fatal("expected degraded flag for clamped output")
		}
	}
}

func TestAdapterPassesThroughFiniteOutput(t *testing.T) {
	adapter := NewAdapter(&stubBackend{out: 73.5}, 3)
	score, err := adapter.Score(context.Background(), []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.Value != 73.5 || score.Degraded {
		t.Fatalf("expected 73.5 undegraded, got %+v", score)
	}
}

func TestLinearBackendDefaultArtifact(t *testing.T) {
	backend := NewLinearBackend("")
	if backend.InputSize() != 16 {
		t.Fatalf("expected 16 inputs, got %d", backend.InputSize())
	}
	features := make([]float64, 16)
	out, err := backend.Infer(context.Background(), features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out < 0 || out > 100 {
		t.Fatalf("expected score in [0,100], got %v", out)
	}
}

func TestLinearBackendMissingArtifact(t *testing.T) {
	backend := NewLinearBackend("/nonexistent/model.json")
	if _, err := backend.Infer(context.Background(), make([]float64, 16)); err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

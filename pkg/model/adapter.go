package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
)

// DimensionError reports a vector whose length disagrees with the expected
// input size. It is a configuration defect, not a user error.
type DimensionError struct {
	Got, Want int
}

func (e DimensionError) Error() string {
	return fmt.Sprintf("feature vector has %d values, model expects %d", e.Got, e.Want)
}

func IsDimensionError(err error) bool {
	var de DimensionError
	return errors.As(err, &de)
}

// InferenceError wraps a backend failure (corrupt artifact, backend crash).
type InferenceError struct {
	reason error
}

func (e InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.reason)
}

func (e InferenceError) Unwrap() error {
	return e.reason
}

func IsInferenceError(err error) bool {
	var ie InferenceError
	return errors.As(err, &ie)
}

// Score is one inference outcome. Degraded is set when the backend emitted a
// non-finite value that had to be clamped; callers fold it into confidence.
type Score struct {
	Value    float64
	Degraded bool
}

// Adapter owns the process-lifetime backend handle and enforces the call
// contract: exact input dimension, serialized access, finite output.
// It does not clamp in-range outputs and never retries.
type Adapter struct {
	backend  Backend
	expected int
	mu       sync.Mutex
}

func NewAdapter(backend Backend, expected int) *Adapter {
	return &Adapter{backend: backend, expected: expected}
}

func (a *Adapter) Score(ctx context.Context, features []float64) (Score, error) {
	if len(features) != a.expected {
		return Score{}, DimensionError{Got: len(features), Want: a.expected}
	}

	a.mu.Lock()
	raw, err := a.backend.Infer(ctx, features)
	a.mu.Unlock()
	if err != nil {
		return Score{}, InferenceError{reason: err}
	}

	if math.IsNaN(raw) {
		return Score{Value: 0, Degraded: true}, nil
	}
	if math.IsInf(raw, 1) {
		return Score{Value: 100, Degraded: true}, nil
	}
	if math.IsInf(raw, -1) {
		return Score{Value: 0, Degraded: true}, nil
	}
	return Score{Value: raw}, nil
}

func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.backend.Close()
}

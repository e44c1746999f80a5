package feature

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSpecShape(t *testing.T) {
	spec := DefaultSpec()
	if spec.Len() != 16 {
		t.Fatalf("expected 16 features, got %d", spec.Len())
	}
	if len(spec.Mean) != spec.Len() || len(spec.Std) != spec.Len() {
		t.Fatalf("stats cover %d means and %d stds for %d features", len(spec.Mean), len(spec.Std), spec.Len())
	}
	// Binary trailing features pass through standardization unchanged.
	for _, name := range []string{FeatureGender, FeatureSmoker, FeatureDiabetic, FeatureHeartDisease} {
		if spec.Mean[name] != 0 || spec.Std[name] != 1 {
			t.Fatalf("expected pass-through stats for %s, got mean=%v std=%v", name, spec.Mean[name], spec.Std[name])
		}
	}
}

func TestLoadDescriptor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.json")
	payload := `{"input_order":["A","B","C"],"numeric_means":[1,2],"numeric_stds":[0.5,0]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Len() != 3 {
		t.Fatalf("expected 3 features, got %d", spec.Len())
	}
	if spec.Mean["A"] != 1 || spec.Std["A"] != 0.5 {
		t.Fatalf("unexpected stats for A: mean=%v std=%v", spec.Mean["A"], spec.Std["A"])
	}
	if spec.Mean["C"] != 0 || spec.Std["C"] != 1 {
		t.Fatalf("expected pass-through stats for trailing feature C")
	}
}

func TestLoadFeatureOrderFallbackKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.json")
	payload := `{"feature_order":["X","Y"],"numeric_means":[0],"numeric_stds":[1]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Len() != 2 {
		t.Fatalf("expected 2 features, got %d", spec.Len())
	}
}

func TestLoadRejectsMissingOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.json")
	if err := os.WriteFile(path, []byte(`{"numeric_means":[1],"numeric_stds":[1]}`), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrMissingOrder) {
		t.Fatalf("expected ErrMissingOrder, got %v", err)
	}
}

func TestLoadRejectsBadStats(t *testing.T) {
	cases := map[string]string{
		"mismatched lengths": `{"input_order":["A"],"numeric_means":[1,2],"numeric_stds":[1]}`,
		"too many stats":     `{"input_order":["A"],"numeric_means":[1,2],"numeric_stds":[1,2]}`,
		"negative std":       `{"input_order":["A"],"numeric_means":[1],"numeric_stds":[-1]}`,
		"duplicate name":     `{"input_order":["A","A"],"numeric_means":[1],"numeric_stds":[1]}`,
	}
	for name, payload := range cases {
		path := filepath.Join(t.TempDir(), "spec.json")
		if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
			t.Fatalf("write descriptor: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

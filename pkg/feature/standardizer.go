package feature

import "fmt"

// Standardize rescales a feature vector to the spec's statistics:
// (x - mean) / std per element, falling back to mean-subtraction only when a
// feature's std is zero. The output has the same length as the input.
func Standardize(vector []float64, spec *Spec) ([]float64, error) {
	if len(vector) != spec.Len() {
		return nil, fmt.Errorf("vector has %d features, spec describes %d", len(vector), spec.Len())
	}
	out := make([]float64, len(vector))
	for i, name := range spec.Order {
		mean := spec.Mean[name]
		std := spec.Std[name]
		if std != 0 {
			out[i] = (vector[i] - mean) / std
		} else {
			out[i] = vector[i] - mean
		}
	}
	return out, nil
}

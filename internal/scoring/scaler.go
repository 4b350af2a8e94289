package scoring

import "fmt"

// Scaler standardizes named features as (x - mean) / scale.
// Features missing from Mean or Scale pass through unchanged.
type Scaler struct {
	Mean  map[string]float64 `json:"mean,omitempty"`
	Scale map[string]float64 `json:"scale,omitempty"`
}

// Validate rejects parameters for unknown features.
func (s *Scaler) Validate() error {
	if s == nil {
		return nil
	}
	for name := range s.Mean {
		if _, ok := featureIndex[name]; !ok {
			return fmt.Errorf("scaler mean: unknown feature %q", name)
		}
	}
	for name := range s.Scale {
		if _, ok := featureIndex[name]; !ok {
			return fmt.Errorf("scaler scale: unknown feature %q", name)
		}
	}
	return nil
}

// Transform returns a scaled copy of vec. A zero scale is treated as 1.
func (s *Scaler) Transform(vec []float64) ([]float64, error) {
	if len(vec) != len(FeatureNames) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVectorLength, len(vec), len(FeatureNames))
	}

	out := make([]float64, len(vec))
	copy(out, vec)
	if s == nil {
		return out, nil
	}

	for i, name := range FeatureNames {
		mean := s.Mean[name]
		scale, ok := s.Scale[name]
		if !ok || scale == 0 {
			scale = 1
		}
		out[i] = (out[i] - mean) / scale
	}
	return out, nil
}

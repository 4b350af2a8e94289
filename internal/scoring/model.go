package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// Classifier is the opaque trained model: a scaled vector in FeatureNames
// order goes in, class 0 (no risk) or 1 (risk) comes out.
type Classifier interface {
	Predict(ctx context.Context, vector []float64) (int, error)
}

// ProbabilityClassifier is a Classifier that also exposes the risk probability.
type ProbabilityClassifier interface {
	Classifier
	Probability(ctx context.Context, vector []float64) (float64, error)
}

// DefaultThreshold is the decision threshold used when the artifact omits one.
const DefaultThreshold = 0.5

// LinearModel is a logistic model loaded from a JSON artifact.
type LinearModel struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
	Threshold    float64            `json:"threshold"`
	Scaler       *Scaler            `json:"scaler,omitempty"`

	weights []float64
}

var _ ProbabilityClassifier = (*LinearModel)(nil)

// LoadModel reads a model artifact from path.
func LoadModel(path string) (*LinearModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	m, err := ReadModel(f)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return m, nil
}

// ReadModel decodes and validates a model artifact.
func ReadModel(r io.Reader) (*LinearModel, error) {
	var raw struct {
		Intercept    float64            `json:"intercept"`
		Coefficients map[string]float64 `json:"coefficients"`
		Threshold    *float64           `json:"threshold"`
		Scaler       *Scaler            `json:"scaler"`
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	threshold := DefaultThreshold
	if raw.Threshold != nil {
		threshold = *raw.Threshold
	}
	return NewLinearModel(raw.Intercept, raw.Coefficients, threshold, raw.Scaler)
}

// NewLinearModel validates the parameters and builds a model.
func NewLinearModel(intercept float64, coefficients map[string]float64, threshold float64, scaler *Scaler) (*LinearModel, error) {
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("threshold %v outside (0, 1)", threshold)
	}
	if err := scaler.Validate(); err != nil {
		return nil, err
	}

	weights := make([]float64, len(FeatureNames))
	for name, w := range coefficients {
		i, ok := featureIndex[name]
		if !ok {
			return nil, fmt.Errorf("coefficient for unknown feature %q", name)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("coefficient %q is not finite", name)
		}
		weights[i] = w
	}

	return &LinearModel{
		Intercept:    intercept,
		Coefficients: coefficients,
		Threshold:    threshold,
		Scaler:       scaler,
		weights:      weights,
	}, nil
}

// Probability returns the risk probability for a scaled vector.
func (m *LinearModel) Probability(_ context.Context, vector []float64) (float64, error) {
	if len(vector) != len(m.weights) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrVectorLength, len(vector), len(m.weights))
	}

	z := m.Intercept
	for i, x := range vector {
		z += m.weights[i] * x
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// Predict returns 1 when the risk probability reaches the threshold.
func (m *LinearModel) Predict(ctx context.Context, vector []float64) (int, error) {
	p, err := m.Probability(ctx, vector)
	if err != nil {
		return 0, err
	}
	if p >= m.Threshold {
		return 1, nil
	}
	return 0, nil
}

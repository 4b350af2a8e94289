package reporting

import (
	"context"
	"fmt"
	"time"

	"credit-risk-lab/internal/storage"
)

// Generator produces reports from stored evaluation runs.
type Generator struct {
	ivResults storage.IVResultStore
	now       func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(ivResults storage.IVResultStore) *Generator {
	return &Generator{
		ivResults: ivResults,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads the evaluation run and builds its report.
func (g *Generator) Generate(ctx context.Context, runID string) (*Report, error) {
	iv, err := g.ivResults.GetByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load iv run %s: %w", runID, err)
	}
	return Build(iv, g.now()), nil
}

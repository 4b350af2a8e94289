package reporting

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
)

// ErrNoChartData is returned when a report has no positive IV to plot.
var ErrNoChartData = errors.New("no feature with positive IV to chart")

// RenderChart writes the IV ranking as a PNG bar chart.
// Features with zero IV are left out.
func RenderChart(w io.Writer, r *Report) error {
	var bars []chart.Value
	maxIV := 0.0
	for _, row := range r.Ranking {
		if row.IV <= 0 {
			continue
		}
		maxIV = math.Max(maxIV, row.IV)
		bars = append(bars, chart.Value{
			Label: row.Variable,
			Value: row.IV,
		})
	}
	if len(bars) == 0 {
		return ErrNoChartData
	}

	barChart := chart.BarChart{
		Title: fmt.Sprintf("Information Value by Feature (%s)", r.Target),
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:      120 + 100*len(bars),
		Height:     480,
		BarWidth:   60,
		BarSpacing: 40,
		Bars:       bars,
	}
	// Axis starts at 0 so a single bar or equal bars still have a non-empty range.
	barChart.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: maxIV}
	barChart.YAxis.ValueFormatter = func(v interface{}) string {
		if vf, isFloat := v.(float64); isFloat {
			return fmt.Sprintf("%.3f", vf)
		}
		return ""
	}

	if err := barChart.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Information Value Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))
	}
	sb.WriteString(fmt.Sprintf("Target: %s | Features: %d\n\n", r.Target, r.FeatureCount))

	// Ranking
	sb.WriteString("## Feature Ranking\n\n")
	if len(r.Ranking) > 0 {
		sb.WriteString("| Rank | Variable | IV | Bins | Strength |\n")
		sb.WriteString("|------|----------|----|------|----------|\n")
		for _, row := range r.Ranking {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.6f | %d | %s |\n",
				row.Rank, row.Variable, row.IV, row.Bins, row.Strength))
		}
	} else {
		sb.WriteString("No features evaluated.\n")
	}
	sb.WriteString("\n")

	// Warnings
	if len(r.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range r.Warnings {
			sb.WriteString(fmt.Sprintf("- %s\n", w))
		}
		sb.WriteString("\n")
	}

	// Bin breakdowns
	sb.WriteString("## Bin Breakdown\n\n")
	for _, f := range r.Features {
		sb.WriteString(fmt.Sprintf("### %s (IV %.6f)\n\n", f.Variable, f.IV))
		if len(f.Bins) == 0 {
			sb.WriteString("No bins.\n\n")
			continue
		}
		sb.WriteString("| Bin | All | Good | Bad | Distr Good | Distr Bad | WoE | IV |\n")
		sb.WriteString("|-----|-----|------|-----|------------|-----------|-----|----|\n")
		for _, b := range f.Bins {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %.4f | %.4f | %.4f | %.6f |\n",
				escapeCell(b.Bin), b.All, b.Good, b.Bad, b.DistrGood, b.DistrBad, b.WoE, b.IV))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func escapeCell(s string) string {
	if s == "" {
		return "(missing)"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

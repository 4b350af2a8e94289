package reporting

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// RenderTable writes the IV ranking as a console table.
func RenderTable(w io.Writer, r *Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Variable", "IV", "Bins", "Strength"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range r.Ranking {
		table.Append([]string{
			fmt.Sprintf("%d", row.Rank),
			row.Variable,
			fmt.Sprintf("%.6f", row.IV),
			fmt.Sprintf("%d", row.Bins),
			string(row.Strength),
		})
	}

	table.Render()
}

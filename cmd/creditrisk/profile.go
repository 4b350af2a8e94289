package main

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"credit-risk-lab/internal/dataset"
)

func profileCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Summarize missing values and duplicate rows of a CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := openInput(input)
			if err != nil {
				return err
			}
			table, err := dataset.ReadTable(in)
			in.Close()
			if err != nil {
				return fmt.Errorf("read table: %w", err)
			}

			p := dataset.BuildProfile(table)
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "Rows: %d | Columns: %d | Duplicate rows: %d\n\n", p.Rows, p.Columns, p.DuplicateRows)
			if len(p.Missing) == 0 {
				fmt.Fprintln(w, "No missing values.")
				return nil
			}

			tw := tablewriter.NewWriter(w)
			tw.SetHeader([]string{"Column", "Missing", "Percent"})
			tw.SetAutoFormatHeaders(false)
			for _, m := range p.Missing {
				tw.Append([]string{m.Column, fmt.Sprintf("%d", m.Missing), fmt.Sprintf("%.2f%%", m.Percent)})
			}
			tw.Render()

			fmt.Fprintf(w, "\nMost missing: %s\n", strings.Join(p.MostMissing, ", "))
			if len(p.OverHalfMissing) > 0 {
				fmt.Fprintf(w, "Over 50%% missing: %s\n", strings.Join(p.OverHalfMissing, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV file, - for stdin")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

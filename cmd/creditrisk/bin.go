package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"credit-risk-lab/internal/binning"
	"credit-risk-lab/internal/dataset"
)

func binCmd() *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "bin",
		Short: "Discretize a labeled feature table into quantile bins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := openInput(input)
			if err != nil {
				return err
			}
			table, err := dataset.ReadTable(in)
			in.Close()
			if err != nil {
				return fmt.Errorf("read feature table: %w", err)
			}

			binner := binning.QuantileBinner{Bins: cfg.Binning.Bins, Exclude: cfg.Binning.Exclude}
			binned, err := binner.Bin(table, cfg.WoE.Target)
			if err != nil {
				return err
			}

			logger.Info("table binned", "columns", len(binned.Columns), "rows", len(binned.Rows), "bins", binner.Bins)
			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return dataset.WriteTable(w, binned)
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "labeled feature CSV, - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "", "binned CSV (default: stdout)")
	cmd.Flags().String("target", "", "binary target column (default: config woe.target)")
	cmd.Flags().Int("bins", 0, "quantile bins per numeric column (default: config binning.bins)")
	cmd.Flags().StringSlice("exclude", nil, "columns to drop, e.g. identifiers")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

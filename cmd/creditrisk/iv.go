package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"credit-risk-lab/internal/binning"
	"credit-risk-lab/internal/dataset"
	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/reporting"
)

// Report output formats.
const (
	formatMarkdown = "markdown"
	formatCSV      = "csv"
	formatTable    = "table"
	formatJSON     = "json"
)

type reportOutputs struct {
	format  string
	output  string
	binsCSV string
	chart   string
}

func (o *reportOutputs) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", formatTable, "report format (table, markdown, csv, json)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "report file (default: stdout)")
	cmd.Flags().StringVar(&o.binsCSV, "bins-csv", "", "also write the per-bin breakdown as CSV")
	cmd.Flags().StringVar(&o.chart, "chart", "", "also write an IV bar chart PNG")
}

func (o *reportOutputs) write(stdout io.Writer, r *reporting.Report) error {
	err := writeOutput(stdout, o.output, func(w io.Writer) error {
		switch o.format {
		case formatTable:
			reporting.RenderTable(w, r)
			return nil
		case formatMarkdown:
			_, err := io.WriteString(w, reporting.RenderMarkdown(r))
			return err
		case formatCSV:
			_, err := io.WriteString(w, reporting.RenderCSV(r))
			return err
		case formatJSON:
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		default:
			return fmt.Errorf("unknown format %q", o.format)
		}
	})
	if err != nil {
		return err
	}

	if o.binsCSV != "" {
		if err := writeOutput(stdout, o.binsCSV, func(w io.Writer) error {
			_, err := io.WriteString(w, reporting.RenderBinsCSV(r))
			return err
		}); err != nil {
			return fmt.Errorf("write bins csv: %w", err)
		}
	}
	if o.chart != "" {
		if err := writeOutput(stdout, o.chart, func(w io.Writer) error {
			return reporting.RenderChart(w, r)
		}); err != nil {
			return err
		}
		logger.Info("chart written", "path", o.chart)
	}
	return nil
}

func ivCmd() *cobra.Command {
	var (
		input string
		bin   bool
		out   reportOutputs
	)

	cmd := &cobra.Command{
		Use:   "iv",
		Short: "Compute Weight of Evidence and Information Value per feature",
		Long: `Reads a binned, target-labeled table and computes per-bin WoE and per-feature IV.
With --bin the input is a raw feature table that is quantile-binned first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			in, err := openInput(input)
			if err != nil {
				return err
			}
			table, err := dataset.ReadTable(in)
			in.Close()
			if err != nil {
				return fmt.Errorf("read table: %w", err)
			}

			stores, cleanup, err := createStores(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			runner := newRunner(stores)

			var iv *domain.IVReport
			if bin {
				binner := binning.QuantileBinner{Bins: cfg.Binning.Bins, Exclude: cfg.Binning.Exclude}
				iv, err = runner.BinAndEvaluate(ctx, table, binner)
			} else {
				iv, err = runner.Evaluate(ctx, table)
			}
			if err != nil {
				return err
			}
			for _, w := range iv.Warnings {
				logger.Warn("feature warning", "warning", w)
			}

			return out.write(cmd.OutOrStdout(), reporting.Build(iv, time.Now().UTC()))
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "binned CSV, - for stdin")
	cmd.Flags().BoolVar(&bin, "bin", false, "quantile-bin the input before evaluating")
	cmd.Flags().String("target", "", "binary target column (default: config woe.target)")
	cmd.Flags().Int("workers", 0, "parallel feature columns, 0 = unbounded (default: config woe.workers)")
	cmd.Flags().Int("bins", 0, "quantile bins per numeric column, with --bin")
	cmd.Flags().StringSlice("exclude", nil, "columns to drop before binning, with --bin")
	out.register(cmd)
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func reportCmd() *cobra.Command {
	var (
		runID string
		out   reportOutputs
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a stored IV run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			stores, cleanup, err := createStores(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			r, err := reporting.NewGenerator(stores.ivResults).Generate(ctx, runID)
			if err != nil {
				return err
			}
			return out.write(cmd.OutOrStdout(), r)
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "run ID printed by iv")
	out.register(cmd)
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

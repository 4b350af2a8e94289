package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"credit-risk-lab/internal/dataset"
)

func engineerCmd() *cobra.Command {
	var (
		input      string
		output     string
		skipIngest bool
	)

	cmd := &cobra.Command{
		Use:   "engineer",
		Short: "Derive per-transaction features from a transaction CSV",
		Long: `Reads raw transactions, stores them, derives time fields and per-customer
aggregates (total, mean, std, count) and writes one feature row per transaction.

With --skip-ingest the transactions already in the store are used instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if input == "" && !skipIngest {
				return fmt.Errorf("--input is required unless --skip-ingest is set")
			}

			stores, cleanup, err := createStores(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			runner := newRunner(stores)

			if !skipIngest {
				in, err := openInput(input)
				if err != nil {
					return err
				}
				txs, err := dataset.ReadTransactions(in)
				in.Close()
				if err != nil {
					return fmt.Errorf("read transactions: %w", err)
				}
				if err := runner.Ingest(ctx, txs); err != nil {
					return err
				}
			}

			res, err := runner.Engineer(ctx)
			if err != nil {
				return err
			}

			logger.Info("features engineered",
				"run_id", res.RunID,
				"records", len(res.Records),
				"customers", res.Customers,
			)

			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return dataset.WriteFeatures(w, res.Records)
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "transaction CSV, - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "", "feature CSV (default: stdout)")
	cmd.Flags().BoolVar(&skipIngest, "skip-ingest", false, "engineer the transactions already in the store")
	cmd.Flags().Int("workers", 0, "parallel customer groups, 0 = unbounded (default: config features.workers)")
	_ = cmd.Flags().SetAnnotation("workers", configKeyAnnotation, []string{"features.workers"})

	return cmd
}

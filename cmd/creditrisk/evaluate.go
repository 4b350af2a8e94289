package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"credit-risk-lab/internal/dataset"
	"credit-risk-lab/internal/evaluation"
	"credit-risk-lab/internal/scoring"
)

func evaluateCmd() *cobra.Command {
	var (
		input  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a labeled CSV with the model and report classification metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if cfg.Model.Path == "" {
				return errors.New("model path is required (--model or model.path)")
			}

			model, err := scoring.LoadModel(cfg.Model.Path)
			if err != nil {
				return err
			}
			svc := scoring.NewModelService(model, nil, scoring.WithLogger(logger.Logger))

			in, err := openInput(input)
			if err != nil {
				return err
			}
			reqs, labels, err := dataset.ReadScoringRequests(in, cfg.WoE.Target)
			in.Close()
			if err != nil {
				return fmt.Errorf("read labeled requests: %w", err)
			}

			classes, probs, err := svc.Scores(ctx, reqs)
			if err != nil {
				return err
			}
			report, err := evaluation.Evaluate(labels, classes, probs)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			tw := tablewriter.NewWriter(w)
			tw.SetHeader([]string{"Metric", "Value"})
			tw.SetAutoFormatHeaders(false)
			tw.AppendBulk([][]string{
				{"Samples", fmt.Sprintf("%d", report.Samples)},
				{"True positives", fmt.Sprintf("%d", report.TruePositives)},
				{"False positives", fmt.Sprintf("%d", report.FalsePositives)},
				{"True negatives", fmt.Sprintf("%d", report.TrueNegatives)},
				{"False negatives", fmt.Sprintf("%d", report.FalseNegatives)},
				{"Accuracy", fmt.Sprintf("%.4f", report.Accuracy)},
				{"Precision", fmt.Sprintf("%.4f", report.Precision)},
				{"Recall", fmt.Sprintf("%.4f", report.Recall)},
				{"F1", fmt.Sprintf("%.4f", report.F1)},
				{"ROC-AUC", fmt.Sprintf("%.4f", report.ROCAUC)},
			})
			tw.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "labeled scoring CSV, - for stdin")
	cmd.Flags().String("model", "", "model artifact JSON (default: config model.path)")
	cmd.Flags().String("target", "", "label column (default: config woe.target)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print metrics as JSON")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

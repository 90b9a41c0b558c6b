package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"biaslens/adapters/fileio"
	"biaslens/adapters/memory"
	"biaslens/app"
	"biaslens/internal"
	"biaslens/internal/analysis"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "biaslens",
		Short: "Detect and correct class imbalance and skewness in tabular datasets",
	}

	rootCmd.AddCommand(
		newDetectBiasCmd(),
		newFixBiasCmd(),
		newDetectSkewCmd(),
		newFixSkewCmd(),
		newClassifyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func services() (*app.BiasService, *app.SkewService) {
	logger := internal.DefaultLogger
	history := memory.NewHistoryRepository()
	return app.NewBiasService(logger, history), app.NewSkewService(logger, history)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func newDetectBiasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect-bias [file] [columns...]",
		Short: "Analyze class distributions for categorical columns",
		Long: `Analyze the class distribution of one or more categorical columns and
grade the imbalance severity of each.

Example: biaslens detect-bias data.csv gender outcome`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := fileio.ReadDataset(args[0])
			if err != nil {
				return err
			}
			bias, _ := services()
			results := bias.DetectImbalance(cmd.Context(), tbl, args[0], args[1:])
			return printJSON(results)
		},
	}
	return cmd
}

func newFixBiasCmd() *cobra.Command {
	var method string
	var threshold float64
	var categorical []string
	var output string

	cmd := &cobra.Command{
		Use:   "fix-bias [file] [target-column]",
		Short: "Correct class imbalance in a dataset",
		Long: `Correct class imbalance with the chosen method and write the corrected
dataset to the output path. Reweighting prints per-class weights and leaves
the dataset unchanged.

Example: biaslens fix-bias data.csv outcome --method smote --threshold 0.8`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := fileio.ReadDataset(args[0])
			if err != nil {
				return err
			}
			bias, _ := services()

			req := app.CorrectionRequest{
				TargetColumn:        args[1],
				Method:              method,
				CategoricalFeatures: categorical,
			}
			if cmd.Flags().Changed("threshold") {
				req.Threshold = &threshold
			}

			corrected, meta, err := bias.CorrectImbalance(cmd.Context(), tbl, args[0], req)
			if err != nil {
				return err
			}
			if len(meta.ClassWeights) > 0 {
				return printJSON(meta)
			}
			if err := fileio.SaveDataset(corrected, output, true); err != nil {
				return err
			}
			fmt.Printf("Corrected dataset written to %s (%d rows)\n", output, corrected.RowCount())
			return printJSON(meta)
		},
	}

	cmd.Flags().StringVar(&method, "method", "oversample", "Correction method: oversample|undersample|smote|reweight")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Desired minority/majority balance in (0, 1]")
	cmd.Flags().StringSliceVar(&categorical, "categorical", nil, "Categorical feature columns (switches SMOTE to mixed-type mode)")
	cmd.Flags().StringVar(&output, "output", "corrected_dataset.csv", "Output path for the corrected dataset")
	return cmd
}

func newDetectSkewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect-skew [file] [columns...]",
		Short: "Measure skewness of numeric columns",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := fileio.ReadDataset(args[0])
			if err != nil {
				return err
			}
			_, skew := services()

			results := make(map[string]any, len(args)-1)
			for _, column := range args[1:] {
				detection, err := skew.DetectSkewness(cmd.Context(), tbl, args[0], column)
				if err != nil {
					results[column] = map[string]string{"error": err.Error()}
					continue
				}
				results[column] = detection
			}
			return printJSON(results)
		},
	}
	return cmd
}

func newFixSkewCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fix-skew [file] [columns...]",
		Short: "Transform skewed numeric columns toward symmetry",
		Long: `Pick and apply a severity-matched transform for each column, then write
the corrected dataset. Columns that cannot be transformed report their error
without aborting the rest.

Example: biaslens fix-skew data.csv income age --output fixed.csv`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := fileio.ReadDataset(args[0])
			if err != nil {
				return err
			}
			_, skew := services()

			corrected, results := skew.CorrectMultipleColumns(cmd.Context(), tbl, args[0], args[1:])
			if err := fileio.SaveDataset(corrected, output, true); err != nil {
				return err
			}
			fmt.Printf("Corrected dataset written to %s\n", output)
			return printJSON(results)
		},
	}

	cmd.Flags().StringVar(&output, "output", "skew_corrected_dataset.csv", "Output path for the corrected dataset")
	return cmd
}

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Auto-classify every column as categorical, continuous, or identifier-like",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := fileio.ReadDataset(args[0])
			if err != nil {
				return err
			}
			th := analysis.AutoThresholds(tbl)
			classifications := make(map[string]string, len(tbl.Columns))
			for _, col := range tbl.Columns {
				values, err := tbl.Column(col)
				if err != nil {
					continue
				}
				classifications[col] = analysis.ClassifyColumn(values, th)
			}
			return printJSON(map[string]any{
				"thresholds":      th,
				"classifications": classifications,
			})
		},
	}
	return cmd
}

package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seat-predictor/seat-predictor/seat"
	"github.com/seat-predictor/seat-predictor/seat/inference"
)

// --- seatpredict normalize ---

var normalizeIn, normalizeOut string

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Clean institute/course text in a final allocation CSV",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := configFromFlags(cmd)
		in, out := cfg.Outputs.Final, cfg.Outputs.Normalized
		if cmd.Flags().Changed("in") {
			in = normalizeIn
		}
		if cmd.Flags().Changed("out") {
			out = normalizeOut
		}
		n, err := seat.RunNormalize(in, out)
		if err != nil {
			logrus.Fatalf("Normalization failed: %v", err)
		}
		logrus.Infof("Normalized %d rows into %s", n, out)
	},
}

// --- seatpredict build-table ---

var buildIn, buildOut string

var buildTableCmd = &cobra.Command{
	Use:   "build-table",
	Short: "Aggregate a normalized allocation CSV into the inference table",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := configFromFlags(cmd)
		in, out := cfg.Outputs.Normalized, cfg.Outputs.Table
		if cmd.Flags().Changed("in") {
			in = buildIn
		}
		if cmd.Flags().Changed("out") {
			out = buildOut
		}
		n, err := inference.BuildFile(in, out)
		if err != nil {
			logrus.Fatalf("Building inference table failed: %v", err)
		}
		logrus.Infof("Inference table saved to %s with %d rows.", out, n)
	},
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeIn, "in", "", "Final allocation CSV (default from config)")
	normalizeCmd.Flags().StringVar(&normalizeOut, "out", "", "Normalized CSV to write (default from config)")

	buildTableCmd.Flags().StringVar(&buildIn, "in", "", "Normalized CSV (default from config)")
	buildTableCmd.Flags().StringVar(&buildOut, "out", "", "Inference table to write (default from config)")

	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(buildTableCmd)
}

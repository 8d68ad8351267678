package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seat-predictor/seat-predictor/seat"
	"github.com/seat-predictor/seat-predictor/seat/inference"
	"github.com/seat-predictor/seat-predictor/seat/pipeline"
	"github.com/seat-predictor/seat-predictor/seat/trace"
)

var (
	runR1, runR2, runR3 string // round input overrides
	runOutDir           string // directory for all artifacts (overrides config outputs)
	runTraceLevel       string // Trace verbosity
)

// runCmd executes the full allocation pipeline
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the allocation pipeline",
	Long: `Load R1, R2 and R3, reconcile each candidate's final seat, normalize
institute/course text and build the inference table. Artifacts:
final_seat_allocation.csv, fully_normalized.csv, inference_table.csv and the
append-only malformed_rows.log.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := configFromFlags(cmd)
		paths := cfg.Paths()
		if cmd.Flags().Changed("r1") {
			paths.R1 = runR1
		}
		if cmd.Flags().Changed("r2") {
			paths.R2 = runR2
		}
		if cmd.Flags().Changed("r3") {
			paths.R3 = runR3
		}
		if cmd.Flags().Changed("out-dir") {
			paths.Final = filepath.Join(runOutDir, seat.FinalAllocationFile)
			paths.Normalized = filepath.Join(runOutDir, seat.NormalizedFile)
			paths.Table = filepath.Join(runOutDir, inference.TableFile)
			paths.MalformedLog = filepath.Join(runOutDir, seat.MalformedLogFile)
		}
		level := cfg.Trace
		if cmd.Flags().Changed("trace-level") {
			level = runTraceLevel
		}
		if !trace.IsValidLevel(level) {
			logrus.Fatalf("Unknown trace level %q; valid: none, decisions", level)
		}

		p := pipeline.New(paths)
		p.TraceLevel = trace.Level(level)

		logrus.Infof("Starting pipeline: R1=%s R2=%s R3=%s", paths.R1, paths.R2, paths.R3)
		report, err := p.Run()
		if err != nil {
			logrus.Fatalf("Pipeline failed: %v", err)
		}
		printReport(cmd, report)
		logrus.Info("Pipeline complete.")
	},
}

func printReport(cmd *cobra.Command, r *pipeline.Report) {
	out := cmd.OutOrStdout()
	for _, round := range []seat.Round{seat.R1, seat.R2, seat.R3} {
		_, _ = fmt.Fprintf(out, "%s: %d valid rows, %d malformed, %d duplicate ranks\n",
			round, r.ValidRows[round], r.MalformedRows[round], r.DuplicateRanks[round])
	}
	_, _ = fmt.Fprintf(out, "Allocations: %d\n", r.Allocations)
	if r.Trace != nil && r.Trace.TotalRows > 0 {
		_, _ = fmt.Fprintf(out, "  final round R3=%d R2=%d R1=%d, no seat=%d, skipped=%d, lookup misses=%d\n",
			r.Trace.RoundBreakdown["R3"], r.Trace.RoundBreakdown["R2"], r.Trace.RoundBreakdown["R1"],
			r.Trace.NoSeat, r.Trace.Skipped, r.Trace.LookupMisses)
	}
	_, _ = fmt.Fprintf(out, "Inference table rows: %d\n", r.TableRows)
	_, _ = fmt.Fprintf(out, "Elapsed: %s\n", r.Elapsed.Round(time.Millisecond))
}

func init() {
	runCmd.Flags().StringVar(&runR1, "r1", "", "Round-1 CSV (overrides config)")
	runCmd.Flags().StringVar(&runR2, "r2", "", "Round-2 CSV (overrides config)")
	runCmd.Flags().StringVar(&runR3, "r3", "", "Round-3 CSV (overrides config)")
	runCmd.Flags().StringVar(&runOutDir, "out-dir", "", "Directory for all artifacts (overrides config outputs)")
	runCmd.Flags().StringVar(&runTraceLevel, "trace-level", "decisions", "Trace level (none, decisions)")

	rootCmd.AddCommand(runCmd)
}

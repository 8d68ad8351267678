package cmd

import (
	"context"
	"errors"
	"io"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seat-predictor/seat-predictor/seat/audit"
	"github.com/seat-predictor/seat-predictor/seat/inference"
)

var (
	predictRank     int    // Candidate rank
	predictQuota    string // Quota
	predictCategory string // Candidate category
	predictCollege  string // College filter or ANY
	predictCourse   string // Course filter or ANY
	predictGroupBy  string // College or Course
	predictJSON     bool   // Emit JSON instead of tables
	serveTable      string // Inference table override
	serveAuditDB    string // Audit database override
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "List colleges/courses whose last admitted rank covers a candidate's rank",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg := configFromFlags(cmd)
		svc, closeFn := newService(ctx, cmd, cfg)
		defer closeFn()

		groupBy, err := inference.ParseGroupBy(predictGroupBy)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		q := inference.Query{
			Rank:     predictRank,
			Quota:    predictQuota,
			Category: predictCategory,
			College:  predictCollege,
			Course:   predictCourse,
			GroupBy:  groupBy,
		}
		exitCode = runPredict(ctx, svc, q, cmd.OutOrStdout(), predictJSON)
	},
}

// runPredict executes one query and returns the process exit code:
// 0 with results, 1 when nothing is eligible, 2 on errors.
func runPredict(ctx context.Context, svc *inference.Service, q inference.Query, w io.Writer, asJSON bool) int {
	resp, err := svc.Predict(ctx, q)
	if errors.Is(err, inference.ErrNoEligible) {
		var warnings []string
		if resp != nil {
			warnings = resp.Warnings
		}
		if werr := writeNoEligible(w, warnings, asJSON); werr != nil {
			logrus.Errorf("writing output: %v", werr)
			return 2
		}
		return 1
	}
	if err != nil {
		logrus.Errorf("Prediction failed: %v", err)
		return 2
	}
	if err := writeResponse(w, resp, asJSON); err != nil {
		logrus.Errorf("writing output: %v", err)
		return 2
	}
	return 0
}

// newService builds the query service from config and serve flags. An
// audit database that cannot be opened downgrades to no auditing.
func newService(ctx context.Context, cmd *cobra.Command, cfg Config) (*inference.Service, func()) {
	tablePath := cfg.Serve.Table
	if cmd.Flags().Changed("table") {
		tablePath = serveTable
	}
	auditPath := cfg.Serve.AuditDB
	if cmd.Flags().Changed("audit-db") {
		auditPath = serveAuditDB
	}

	store := inference.NewStore(tablePath)
	var auditor audit.Auditor = audit.Nop{}
	closeFn := func() {}
	if auditPath != "" {
		a, err := audit.OpenSQLite(ctx, auditPath)
		if err != nil {
			logrus.Warnf("Audit log unavailable, continuing without it: %v", err)
		} else {
			auditor = a
			closeFn = func() {
				if err := a.Close(); err != nil {
					logrus.Warnf("closing audit log: %v", err)
				}
			}
		}
	}
	return inference.NewService(store, auditor), closeFn
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serveTable, "table", "", "Inference table CSV (default from config)")
	cmd.Flags().StringVar(&serveAuditDB, "audit-db", "", "SQLite file to append query inputs to (empty disables)")
}

func init() {
	predictCmd.Flags().IntVar(&predictRank, "rank", 0, "Candidate rank (positive integer)")
	predictCmd.Flags().StringVar(&predictQuota, "quota", "", "Allotted quota, e.g. AIQ")
	predictCmd.Flags().StringVar(&predictCategory, "category", "", "Candidate category, e.g. OPEN")
	predictCmd.Flags().StringVar(&predictCollege, "college", inference.Any, "College filter or ANY")
	predictCmd.Flags().StringVar(&predictCourse, "course", inference.Any, "Course filter or ANY")
	predictCmd.Flags().StringVar(&predictGroupBy, "group-by", string(inference.GroupByCollege), "Group results by College or Course")
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "Output JSON instead of tables")
	addServeFlags(predictCmd)
	_ = predictCmd.MarkFlagRequired("rank")
	_ = predictCmd.MarkFlagRequired("quota")
	_ = predictCmd.MarkFlagRequired("category")

	rootCmd.AddCommand(predictCmd)
}

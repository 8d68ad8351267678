package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel   string // Log verbosity level
	configPath string // Path to pipeline.yaml
	exitCode   int    // Set by commands that report outcomes through the exit status
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "seatpredict",
	Short: "Seat allocation pipeline and college predictor",
	Long: `seatpredict reconciles three rounds of seat allocation data into one final
seat per candidate, aggregates a rank-range table per (college, course, quota,
category) and answers eligibility queries against it.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// configFromFlags loads the config named by --config. The file is required
// only when the flag was given explicitly.
func configFromFlags(cmd *cobra.Command) Config {
	cfg, err := loadConfig(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	return cfg
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "pipeline.yaml", "Path to pipeline.yaml")
}
